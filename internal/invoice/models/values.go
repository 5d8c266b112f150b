package models

import (
	"net/mail"
	"strings"

	dErrors "invoicer/pkg/domain-errors"
)

// Quantity is a strictly positive line item count.
type Quantity int

// NewQuantity validates and wraps a quantity value.
func NewQuantity(v int) (Quantity, error) {
	if v <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "quantity must be a positive integer")
	}
	return Quantity(v), nil
}

func (q Quantity) Int() int { return int(q) }

// UnitPrice is a strictly positive price in the smallest currency unit.
// No fractional precision: 100 means 100 cents.
type UnitPrice int

// NewUnitPrice validates and wraps a unit price value.
func NewUnitPrice(v int) (UnitPrice, error) {
	if v <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "unit price must be a positive integer")
	}
	return UnitPrice(v), nil
}

func (p UnitPrice) Int() int { return int(p) }

// Money is a non-negative amount in the smallest currency unit. Derived
// totals use it; it is never persisted as mutable state.
type Money int64

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money { return m + other }

func (m Money) Int64() int64 { return int64(m) }

// Email is a normalized customer email address: trimmed, lower-cased, and
// format-checked. Equality is value equality on the normalized form.
type Email string

// NewEmail normalizes and validates an email address. Emails are
// case-insensitive per RFC 5321, so the lower-cased form is canonical.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return "", dErrors.New(dErrors.CodeValidation, "customer email must not be empty")
	}
	addr, err := mail.ParseAddress(normalized)
	if err != nil || addr.Address != normalized {
		return "", dErrors.New(dErrors.CodeValidation, "customer email is not a valid address")
	}
	return Email(normalized), nil
}

func (e Email) String() string { return string(e) }

// Equals compares two emails on their normalized form.
func (e Email) Equals(other Email) bool { return e == other }
