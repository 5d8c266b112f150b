// Package consumer ingests delivery events from the mail provider's Kafka
// topic and funnels them into the delivery-confirmation workflow.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
	"invoicer/pkg/requestcontext"
)

// DeliveryEvent is the provider's wire format. Delivery is at-least-once;
// EventID identifies replays.
type DeliveryEvent struct {
	EventID    string `json:"event_id"`
	ResourceID string `json:"resource_id"`
}

// Confirmer applies a delivery confirmation for an invoice.
type Confirmer interface {
	ConfirmDelivery(ctx context.Context, invoiceID id.InvoiceID) error
}

// EventGuard short-circuits events that were already handled. Optional.
type EventGuard interface {
	FirstSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Config holds the Kafka connection settings for the delivery consumer.
type Config struct {
	Brokers []string
	Topic   string
	Group   string
}

// kafkaClient is the slice of *kgo.Client the consumer uses.
type kafkaClient interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	SetOffsets(setOffsets map[string]map[int32]kgo.EpochOffset)
	Close()
}

// Consumer polls delivery events and commits offsets per record, in order
// within each partition. When a record fails retriably, the partition is
// rewound to that record and everything from it onward is redelivered;
// committing any later offset would silently pass over the failed one.
// Malformed and absorbed events are committed and dropped.
type Consumer struct {
	client    kafkaClient
	confirmer Confirmer
	guard     EventGuard
	logger    *slog.Logger
}

func New(cfg Config, confirmer Confirmer, guard EventGuard, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}
	return &Consumer{client: client, confirmer: confirmer, guard: guard, logger: logger}, nil
}

// Run polls until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic, "partition", partition, "error", err)
		})

		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			c.consumePartition(ctx, p)
		})
	}
}

// consumePartition handles a partition's records in offset order, committing
// each success. The first retriable failure stops the partition: the failed
// record and everything behind it stay uncommitted, and the partition is
// rewound so the next poll redelivers from the failed offset. Committing a
// later record would advance the group offset past the failure and lose it.
func (c *Consumer) consumePartition(ctx context.Context, p kgo.FetchTopicPartition) {
	for _, record := range p.Records {
		if err := c.handleRecord(ctx, record); err != nil {
			c.logger.ErrorContext(ctx, "delivery event failed, rewinding partition",
				"topic", record.Topic, "partition", record.Partition,
				"offset", record.Offset, "error", err)
			c.client.SetOffsets(map[string]map[int32]kgo.EpochOffset{
				record.Topic: {record.Partition: {
					Epoch:  record.LeaderEpoch,
					Offset: record.Offset,
				}},
			})
			return
		}
		if err := c.client.CommitRecords(ctx, record); err != nil {
			c.logger.ErrorContext(ctx, "failed to commit offset",
				"topic", record.Topic, "offset", record.Offset, "error", err)
		}
	}
}

func (c *Consumer) handleRecord(ctx context.Context, record *kgo.Record) error {
	var event DeliveryEvent
	if err := json.Unmarshal(record.Value, &event); err != nil {
		c.logger.WarnContext(ctx, "dropping malformed delivery event",
			"topic", record.Topic, "offset", record.Offset, "error", err)
		return nil
	}

	invoiceID, err := id.ParseInvoiceID(event.ResourceID)
	if err != nil {
		c.logger.WarnContext(ctx, "dropping delivery event with malformed resource ID",
			"event_id", event.EventID, "resource_id", event.ResourceID)
		return nil
	}

	if event.EventID != "" {
		ctx = requestcontext.WithEventID(ctx, event.EventID)
	}

	if c.guard != nil && event.EventID != "" {
		first, err := c.guard.FirstSeen(ctx, event.EventID)
		if err != nil {
			return err
		}
		if !first {
			c.logger.InfoContext(ctx, "duplicate delivery event suppressed",
				"event_id", event.EventID, "invoice_id", invoiceID.String())
			return nil
		}
	}

	if err := c.confirmer.ConfirmDelivery(ctx, invoiceID); err != nil {
		if c.guard != nil && event.EventID != "" {
			if ferr := c.guard.Forget(ctx, event.EventID); ferr != nil {
				c.logger.ErrorContext(ctx, "failed to release event marker",
					"event_id", event.EventID, "error", ferr)
			}
		}
		if dErrors.Retriable(err) {
			return err
		}
		c.logger.WarnContext(ctx, "dropping delivery event after non-retriable failure",
			"event_id", event.EventID, "invoice_id", invoiceID.String(), "error", err)
		return nil
	}
	return nil
}
