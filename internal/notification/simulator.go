package notification

import (
	"context"
	"log/slog"
	"time"

	id "invoicer/pkg/domain"
)

// Confirmer applies a delivery confirmation for an invoice.
type Confirmer interface {
	ConfirmDelivery(ctx context.Context, invoiceID id.InvoiceID) error
}

// Notifier sends an invoice notification to a recipient.
type Notifier interface {
	Send(ctx context.Context, resourceID id.InvoiceID, toEmail, subject, body string) error
}

// WebhookSimulator wraps a Notifier and, after a successful send, confirms
// delivery asynchronously as a real provider's webhook would. Development
// mode only; the delay makes the sending state observable.
type WebhookSimulator struct {
	inner     Notifier
	confirmer Confirmer
	delay     time.Duration
	logger    *slog.Logger

	// done is signalled per simulated confirmation; tests wait on it.
	done chan struct{}
}

func NewWebhookSimulator(inner Notifier, confirmer Confirmer, delay time.Duration, logger *slog.Logger) *WebhookSimulator {
	return &WebhookSimulator{
		inner:     inner,
		confirmer: confirmer,
		delay:     delay,
		logger:    logger,
		done:      make(chan struct{}, 64),
	}
}

func (s *WebhookSimulator) Send(ctx context.Context, resourceID id.InvoiceID, toEmail, subject, body string) error {
	if err := s.inner.Send(ctx, resourceID, toEmail, subject, body); err != nil {
		return err
	}

	// Confirmation outlives the originating request.
	confirmCtx := context.WithoutCancel(ctx)
	go s.confirmLater(confirmCtx, resourceID)
	return nil
}

func (s *WebhookSimulator) confirmLater(ctx context.Context, resourceID id.InvoiceID) {
	defer func() {
		select {
		case s.done <- struct{}{}:
		default:
		}
	}()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if err := s.confirmer.ConfirmDelivery(ctx, resourceID); err != nil {
		s.logger.ErrorContext(ctx, "simulated delivery confirmation failed",
			"resource_id", resourceID.String(), "error", err)
		return
	}
	s.logger.InfoContext(ctx, "simulated delivery confirmed", "resource_id", resourceID.String())
}

// Done exposes the per-confirmation signal for tests.
func (s *WebhookSimulator) Done() <-chan struct{} {
	return s.done
}
