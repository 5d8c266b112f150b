package models

import (
	"strings"

	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
)

// Invoice is the aggregate root for a customer invoice.
//
// Invariants:
//   - Status only ever takes values in {draft, sending, sent-to-client} and
//     moves forward only: draft → sending → sent-to-client
//   - draft → sending requires at least one line item
//   - CustomerName is non-empty; CustomerEmail is normalized and valid
//   - Line items are owned exclusively by the invoice; the slice is replaced
//     as a whole, never mutated in place
//   - Total is recomputed on demand from the line items, never cached
//
// Failed transitions leave the aggregate untouched: callers observe either
// the old state or the new state, nothing partial. Concurrent transitions on
// the same invoice are serialized by the store's Execute, not by the
// aggregate itself.
type Invoice struct {
	ID            id.InvoiceID
	Status        Status
	CustomerName  string
	CustomerEmail Email
	LineItems     []LineItem
}

// NewInvoice constructs a draft invoice with a fresh identity. The customer
// name must be non-empty after trimming and the email valid; line items
// (possibly none, for a draft) are validated by their own constructors
// before they reach here.
func NewInvoice(customerName string, customerEmail Email, lineItems []LineItem) (*Invoice, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "customer name must not be empty")
	}
	if customerEmail == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "customer email must not be empty")
	}
	return &Invoice{
		ID:            id.NewInvoiceID(),
		Status:        StatusDraft,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		LineItems:     lineItems,
	}, nil
}

// Reconstitute rebuilds an invoice from storage. Business invariants are not
// re-validated: stored state reflects a previously valid aggregate.
func Reconstitute(invoiceID id.InvoiceID, status Status, customerName string, customerEmail Email, lineItems []LineItem) *Invoice {
	return &Invoice{
		ID:            invoiceID,
		Status:        status,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		LineItems:     lineItems,
	}
}

// HasLineItems reports whether the invoice carries at least one line.
func (inv *Invoice) HasLineItems() bool {
	return len(inv.LineItems) > 0
}

// CanBeSent reports whether the invoice may enter the sending state:
// it must be a draft with at least one line item.
func (inv *Invoice) CanBeSent() bool {
	return inv.Status == StatusDraft && inv.HasLineItems()
}

// CanMarkSending checks the draft → sending transition.
// Returns an error if the transition is not allowed.
// Use with ApplyMarkSending in Execute callbacks for atomic validate-then-mutate.
func (inv *Invoice) CanMarkSending() error {
	if !inv.HasLineItems() {
		return dErrors.New(dErrors.CodeInvalidTransition, "invoice has no line items")
	}
	if !inv.Status.CanTransitionTo(StatusSending) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "invoice in status %q cannot be sent", inv.Status)
	}
	return nil
}

// ApplyMarkSending transitions the invoice to sending.
// Call CanMarkSending first to validate the transition.
func (inv *Invoice) ApplyMarkSending() {
	inv.Status = StatusSending
}

// MarkAsSending validates and applies the draft → sending transition in one
// call. Prefer CanMarkSending + ApplyMarkSending inside store Execute
// callbacks.
func (inv *Invoice) MarkAsSending() error {
	if err := inv.CanMarkSending(); err != nil {
		return err
	}
	inv.ApplyMarkSending()
	return nil
}

// CanBeMarkedDelivered reports whether the invoice is awaiting a delivery
// confirmation.
func (inv *Invoice) CanBeMarkedDelivered() bool {
	return inv.Status == StatusSending
}

// CanMarkDelivered checks the sending → sent-to-client transition.
// Returns an error if the transition is not allowed.
// Use with ApplyMarkDelivered in Execute callbacks for atomic validate-then-mutate.
func (inv *Invoice) CanMarkDelivered() error {
	if !inv.Status.CanTransitionTo(StatusSent) {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "invoice in status %q cannot be marked delivered", inv.Status)
	}
	return nil
}

// ApplyMarkDelivered transitions the invoice to sent-to-client.
// Call CanMarkDelivered first to validate the transition.
func (inv *Invoice) ApplyMarkDelivered() {
	inv.Status = StatusSent
}

// MarkAsDelivered validates and applies the sending → sent-to-client
// transition in one call.
func (inv *Invoice) MarkAsDelivered() error {
	if err := inv.CanMarkDelivered(); err != nil {
		return err
	}
	inv.ApplyMarkDelivered()
	return nil
}

// IsDelivered reports whether the invoice reached its terminal state. The
// delivery-confirmation handler uses this as its idempotency predicate.
func (inv *Invoice) IsDelivered() bool {
	return inv.Status == StatusSent
}

// Total sums the line totals. Zero for an invoice without lines.
func (inv *Invoice) Total() Money {
	var total Money
	for _, li := range inv.LineItems {
		total = total.Add(li.Total())
	}
	return total
}

// Clone returns a deep copy so stores can hand out aggregates without
// sharing the line item slice with callers.
func (inv *Invoice) Clone() *Invoice {
	items := make([]LineItem, len(inv.LineItems))
	copy(items, inv.LineItems)
	c := *inv
	c.LineItems = items
	return &c
}
