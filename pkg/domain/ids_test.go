package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "invoicer/pkg/domain-errors"
)

// TestParseInvoiceID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseInvoiceID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseInvoiceID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseInvoiceID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseInvoiceID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseInvoiceID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, InvoiceID(valid), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// If this compiles, invoice and line item IDs cannot be interchanged.
func TestTypeDistinction(t *testing.T) {
	invoiceID := InvoiceID(uuid.New())
	lineItemID := LineItemID(uuid.New())

	// These would fail to compile if the types were interchangeable:
	// var _ InvoiceID = lineItemID  // compile error
	// var _ LineItemID = invoiceID  // compile error

	assert.NotEqual(t, uuid.UUID(invoiceID), uuid.UUID(lineItemID))
}

func TestIsNil(t *testing.T) {
	assert.True(t, InvoiceID{}.IsNil())
	assert.False(t, NewInvoiceID().IsNil())
	assert.True(t, LineItemID{}.IsNil())
	assert.False(t, NewLineItemID().IsNil())
}
