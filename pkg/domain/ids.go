// Package domain holds domain primitives shared across modules: typed
// identifiers that make cross-aggregate ID mixups a compile error.
package domain

import (
	"github.com/google/uuid"

	dErrors "invoicer/pkg/domain-errors"
)

// InvoiceID identifies an invoice aggregate.
type InvoiceID uuid.UUID

// LineItemID identifies a line item within an invoice.
type LineItemID uuid.UUID

// NewInvoiceID returns a fresh random invoice ID.
func NewInvoiceID() InvoiceID {
	return InvoiceID(uuid.New())
}

// NewLineItemID returns a fresh random line item ID.
func NewLineItemID() LineItemID {
	return LineItemID(uuid.New())
}

// ParseInvoiceID validates and converts a string into an InvoiceID.
// IDs must be valid, non-nil UUIDs; anything else is rejected at the trust
// boundary.
func ParseInvoiceID(s string) (InvoiceID, error) {
	u, err := parseUUID(s, "invoice id")
	if err != nil {
		return InvoiceID{}, err
	}
	return InvoiceID(u), nil
}

// ParseLineItemID validates and converts a string into a LineItemID.
func ParseLineItemID(s string) (LineItemID, error) {
	u, err := parseUUID(s, "line item id")
	if err != nil {
		return LineItemID{}, err
	}
	return LineItemID(u), nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s is required", label)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s is not a valid UUID", label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeBadRequest, "%s must not be the nil UUID", label)
	}
	return u, nil
}

func (id InvoiceID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id InvoiceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

func (id LineItemID) String() string { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero UUID.
func (id LineItemID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
