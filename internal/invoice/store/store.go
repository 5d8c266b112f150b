// Package store persists the invoice aggregate. Implementations guarantee
// per-aggregate read-modify-write isolation: Execute holds the store's lock
// (mutex, or SQL transaction with a row lock) across both callbacks, so two
// concurrent handlers can never both observe "valid to transition" and both
// commit.
package store

import (
	"context"

	"invoicer/internal/invoice/models"
	id "invoicer/pkg/domain"
)

// CheckFunc validates a pending mutation against the current aggregate
// state. Returning an error aborts Execute without mutating anything; the
// error is returned to the caller unchanged.
type CheckFunc func(inv *models.Invoice) error

// MutateFunc applies a state change to the aggregate. It runs only after the
// check passed, under the same lock.
type MutateFunc func(inv *models.Invoice)

// Store loads and saves invoice aggregates. Save operations are atomic with
// respect to the full aggregate (status and line items together).
type Store interface {
	// Create persists a new invoice with its line items.
	// Returns sentinel.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, inv *models.Invoice) error

	// FindByID loads an invoice by identity.
	// Returns sentinel.ErrNotFound if absent.
	FindByID(ctx context.Context, invoiceID id.InvoiceID) (*models.Invoice, error)

	// Execute atomically loads the invoice, runs check, and if it passes
	// applies mutate and persists the result. The updated aggregate is
	// returned. Returns sentinel.ErrNotFound if the invoice is absent.
	Execute(ctx context.Context, invoiceID id.InvoiceID, check CheckFunc, mutate MutateFunc) (*models.Invoice, error)
}
