// Package notification provides outbound invoice notification senders and
// the inbound confirmation plumbing (webhook, Kafka consumer, event dedup).
package notification

import (
	"context"
	"log/slog"

	id "invoicer/pkg/domain"
)

// LogNotifier writes would-be notifications to the logger instead of an
// external provider. Used in development and as a safe default.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, resourceID id.InvoiceID, toEmail, subject, body string) error {
	n.logger.InfoContext(ctx, "notification sent (log only)",
		"resource_id", resourceID.String(),
		"to", toEmail,
		"subject", subject,
		"body_bytes", len(body))
	return nil
}
