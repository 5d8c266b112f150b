package store

import (
	"context"
	"sync"

	"invoicer/internal/invoice/models"
	id "invoicer/pkg/domain"
	"invoicer/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded invoice store for tests and local development.
// Aggregates are cloned on the way in and out so callers never share line
// item slices with the store.
type InMemory struct {
	mu       sync.RWMutex
	invoices map[id.InvoiceID]*models.Invoice
}

// NewInMemory constructs an empty in-memory invoice store.
func NewInMemory() *InMemory {
	return &InMemory{invoices: make(map[id.InvoiceID]*models.Invoice)}
}

func (s *InMemory) Create(_ context.Context, inv *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; ok {
		return sentinel.ErrAlreadyExists
	}
	s.invoices[inv.ID] = inv.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, invoiceID id.InvoiceID) (*models.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return inv.Clone(), nil
}

// Execute holds the write lock across check and mutate, serializing
// concurrent transitions on the same invoice.
func (s *InMemory) Execute(_ context.Context, invoiceID id.InvoiceID, check CheckFunc, mutate MutateFunc) (*models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[invoiceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}

	working := inv.Clone()
	if err := check(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.invoices[invoiceID] = working

	return working.Clone(), nil
}
