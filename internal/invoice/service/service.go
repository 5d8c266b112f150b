// Package service orchestrates the invoice lifecycle: draft creation, the
// send workflow, and the delivery-confirmation handler.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"invoicer/internal/invoice/models"
	"invoicer/internal/invoice/store"
	"invoicer/internal/platform/metrics"
	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
	"invoicer/pkg/platform/sentinel"
	"invoicer/pkg/requestcontext"
)

// Notifier delivers a message about a resource to a recipient. The service
// calls it at most once per send request, after the sending state is durably
// committed; it performs no retries of its own.
type Notifier interface {
	Send(ctx context.Context, resourceID id.InvoiceID, toEmail, subject, body string) error
}

// Service coordinates invoice state transitions with their external side
// effects. Collaborators arrive through the constructor; there is no ambient
// registry.
type Service struct {
	store    store.Store
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithMetrics attaches Prometheus counters to lifecycle events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the invoice service.
func New(st store.Store, notifier Notifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: st, notifier: notifier, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetNotifier replaces the outbound sender. Main uses this to break the
// cycle with the simulator, which needs the service as its confirmer.
// Call before serving traffic; the field is not synchronized.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateLineItemInput carries raw line attributes from the transport layer.
type CreateLineItemInput struct {
	ProductName string
	Quantity    int
	UnitPrice   int
}

// CreateInvoiceInput carries raw invoice attributes from the transport layer.
type CreateInvoiceInput struct {
	CustomerName  string
	CustomerEmail string
	LineItems     []CreateLineItemInput
}

// Create validates input, constructs a draft invoice, and persists it.
func (s *Service) Create(ctx context.Context, in CreateInvoiceInput) (*models.Invoice, error) {
	email, err := models.NewEmail(in.CustomerEmail)
	if err != nil {
		return nil, err
	}

	lines := make([]models.LineItem, 0, len(in.LineItems))
	for _, li := range in.LineItems {
		line, err := models.NewLineItem(li.ProductName, li.Quantity, li.UnitPrice)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	inv, err := models.NewInvoice(in.CustomerName, email, lines)
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, inv); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "persist invoice")
	}

	s.incInvoicesCreated()
	s.logger.InfoContext(ctx, "invoice created",
		"invoice_id", inv.ID.String(),
		"line_items", len(inv.LineItems),
	)
	return inv, nil
}

// Get loads an invoice by identity.
func (s *Service) Get(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error) {
	inv, err := s.store.FindByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "invoice not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "load invoice")
	}
	return inv, nil
}

// Send moves the invoice from draft to sending and triggers the outbound
// notification.
//
// The sending state is committed before the notifier is invoked. The
// ordering is load-bearing: if the notifier ran first and the process
// crashed before the commit, the delivery confirmation could never
// reconcile, because its idempotency check depends on the status already
// being sending. With commit-first, a notifier failure leaves the invoice in
// a re-triable sending state instead of silently reverting to draft.
func (s *Service) Send(ctx context.Context, invoiceID id.InvoiceID) error {
	inv, err := s.store.Execute(ctx, invoiceID,
		func(i *models.Invoice) error { return i.CanMarkSending() },
		func(i *models.Invoice) { i.ApplyMarkSending() },
	)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "invoice not found")
		case dErrors.HasCode(err, dErrors.CodeInvalidTransition):
			return err
		default:
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "commit sending state")
		}
	}

	s.incSendsCommitted()

	subject := "New invoice is now available"
	if err := s.notifier.Send(ctx, inv.ID, inv.CustomerEmail.String(), subject, invoiceEmailBody(inv)); err != nil {
		// The invoice stays in sending; recovery is a future retry of the
		// send operation or operator intervention.
		s.incNotifierFailures()
		s.logger.ErrorContext(ctx, "notification failed after sending state committed",
			"invoice_id", inv.ID.String(),
			"error", err.Error(),
		)
		return dErrors.Wrap(err, dErrors.CodeNotifierFailure, "send invoice notification")
	}

	s.logger.InfoContext(ctx, "invoice sent",
		"invoice_id", inv.ID.String(),
		"recipient", inv.CustomerEmail.String(),
	)
	return nil
}

// Errors distinguishing the confirmation no-op branches inside Execute.
// They never escape ConfirmDelivery.
var (
	errAlreadyDelivered    = errors.New("already delivered")
	errNotAwaitingDelivery = errors.New("not awaiting delivery")
)

// ConfirmDelivery advances the invoice to sent-to-client in response to an
// inbound delivery confirmation. Confirmations are delivered at least once
// and may arrive out of order, so the handler is idempotent and absorbs
// every condition except infrastructure failure:
//
//   - unknown invoice: logged no-op, event considered handled
//   - already delivered: no-op (duplicate confirmation)
//   - not in sending (e.g. still draft): warn + no-op; retrying an event
//     that can never become valid would be an infinite-retry hazard
//   - store failure: returned as retriable so the delivery mechanism can
//     re-invoke the whole handler
func (s *Service) ConfirmDelivery(ctx context.Context, invoiceID id.InvoiceID) error {
	var observed models.Status

	_, err := s.store.Execute(ctx, invoiceID,
		func(i *models.Invoice) error {
			observed = i.Status
			if i.IsDelivered() {
				return errAlreadyDelivered
			}
			if !i.CanBeMarkedDelivered() {
				return errNotAwaitingDelivery
			}
			return nil
		},
		func(i *models.Invoice) { i.ApplyMarkDelivered() },
	)

	eventID := requestcontext.EventID(ctx)
	switch {
	case err == nil:
		s.incConfirmationsApplied()
		s.logger.InfoContext(ctx, "invoice marked as delivered",
			"invoice_id", invoiceID.String(),
			"event_id", eventID,
		)
		return nil

	case errors.Is(err, sentinel.ErrNotFound):
		s.incConfirmationsIgnored()
		s.logger.WarnContext(ctx, "delivery confirmation for non-existent invoice",
			"invoice_id", invoiceID.String(),
			"event_id", eventID,
			"action", "acknowledge_no_retry",
		)
		return nil

	case errors.Is(err, errAlreadyDelivered):
		s.incConfirmationsDuplicate()
		s.logger.InfoContext(ctx, "invoice already marked as delivered, ignoring event",
			"invoice_id", invoiceID.String(),
			"event_id", eventID,
		)
		return nil

	case errors.Is(err, errNotAwaitingDelivery):
		s.incConfirmationsIgnored()
		s.logger.WarnContext(ctx, "delivery confirmation for invoice not in sending status",
			"invoice_id", invoiceID.String(),
			"current_status", observed.String(),
			"event_id", eventID,
			"action", "acknowledge_no_retry",
		)
		return nil

	default:
		s.logger.ErrorContext(ctx, "failed to process delivery confirmation",
			"invoice_id", invoiceID.String(),
			"event_id", eventID,
			"error", err.Error(),
			"action", "retry",
		)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "commit delivered state")
	}
}

func invoiceEmailBody(inv *models.Invoice) string {
	return fmt.Sprintf(
		"Dear %s,\n\nNew invoice is now available.\n\nThank you for your business!\n\nBest regards,\nCompany Name",
		inv.CustomerName,
	)
}

func (s *Service) incInvoicesCreated() {
	if s.metrics != nil {
		s.metrics.InvoicesCreated.Inc()
	}
}

func (s *Service) incSendsCommitted() {
	if s.metrics != nil {
		s.metrics.SendsCommitted.Inc()
	}
}

func (s *Service) incNotifierFailures() {
	if s.metrics != nil {
		s.metrics.NotifierFailures.Inc()
	}
}

func (s *Service) incConfirmationsApplied() {
	if s.metrics != nil {
		s.metrics.ConfirmationsApplied.Inc()
	}
}

func (s *Service) incConfirmationsDuplicate() {
	if s.metrics != nil {
		s.metrics.ConfirmationsDuplicate.Inc()
	}
}

func (s *Service) incConfirmationsIgnored() {
	if s.metrics != nil {
		s.metrics.ConfirmationsIgnored.Inc()
	}
}
