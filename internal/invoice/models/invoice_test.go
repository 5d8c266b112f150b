package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
)

func newTestInvoice(t *testing.T, lines ...LineItem) *Invoice {
	t.Helper()
	email, err := NewEmail("jane@example.com")
	require.NoError(t, err)
	inv, err := NewInvoice("Jane Doe", email, lines)
	require.NoError(t, err)
	return inv
}

func mustLine(t *testing.T, name string, qty, price int) LineItem {
	t.Helper()
	li, err := NewLineItem(name, qty, price)
	require.NoError(t, err)
	return li
}

func TestNewInvoice(t *testing.T) {
	t.Run("starts in draft with a fresh identity", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, StatusDraft, inv.Status)
		assert.False(t, inv.ID.IsNil())
	})

	t.Run("rejects empty customer name", func(t *testing.T) {
		email, err := NewEmail("jane@example.com")
		require.NoError(t, err)
		_, err = NewInvoice("", email, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects whitespace-only customer name", func(t *testing.T) {
		email, err := NewEmail("jane@example.com")
		require.NoError(t, err)
		_, err = NewInvoice("   \t", email, nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("trims customer name", func(t *testing.T) {
		email, err := NewEmail("jane@example.com")
		require.NoError(t, err)
		inv, err := NewInvoice("  Jane Doe  ", email, nil)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", inv.CustomerName)
	})

	t.Run("allows empty line items while in draft", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.False(t, inv.HasLineItems())
		assert.Equal(t, int64(0), inv.Total().Int64())
	})
}

func TestTotal(t *testing.T) {
	inv := newTestInvoice(t,
		mustLine(t, "Desk", 2, 100),
		mustLine(t, "Lamp", 1, 50),
	)
	assert.Equal(t, int64(250), inv.Total().Int64())
	assert.True(t, inv.CanBeSent())
}

func TestMarkAsSending(t *testing.T) {
	t.Run("transitions a draft with lines", func(t *testing.T) {
		inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
		require.NoError(t, inv.MarkAsSending())
		assert.Equal(t, StatusSending, inv.Status)
	})

	t.Run("rejects a draft without lines and leaves status untouched", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.False(t, inv.CanBeSent())
		err := inv.MarkAsSending()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
		assert.Equal(t, StatusDraft, inv.Status)
	})

	t.Run("rejects a double send", func(t *testing.T) {
		inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
		require.NoError(t, inv.MarkAsSending())
		err := inv.MarkAsSending()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
		assert.Equal(t, StatusSending, inv.Status)
	})
}

func TestMarkAsDelivered(t *testing.T) {
	t.Run("transitions from sending", func(t *testing.T) {
		inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
		require.NoError(t, inv.MarkAsSending())
		require.NoError(t, inv.MarkAsDelivered())
		assert.True(t, inv.IsDelivered())
	})

	t.Run("rejects a draft and leaves status untouched", func(t *testing.T) {
		inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
		err := inv.MarkAsDelivered()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
		assert.Equal(t, StatusDraft, inv.Status)
	})

	t.Run("rejects a delivered invoice", func(t *testing.T) {
		inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
		require.NoError(t, inv.MarkAsSending())
		require.NoError(t, inv.MarkAsDelivered())
		err := inv.MarkAsDelivered()
		require.Error(t, err)
		assert.Equal(t, StatusSent, inv.Status)
	})
}

// TestStatusMonotonicity walks every pair of states and verifies observed
// transitions are a subsequence of draft → sending → sent-to-client.
func TestStatusMonotonicity(t *testing.T) {
	allowed := map[Status]Status{
		StatusDraft:   StatusSending,
		StatusSending: StatusSent,
	}
	all := []Status{StatusDraft, StatusSending, StatusSent}
	for _, from := range all {
		for _, to := range all {
			want := allowed[from] == to
			assert.Equal(t, want, from.CanTransitionTo(to), "%s → %s", from, to)
		}
	}
}

func TestReconstitute(t *testing.T) {
	// Reconstitution never re-validates business invariants: a stored
	// sending invoice with no lines must round-trip untouched.
	invoiceID := id.NewInvoiceID()
	inv := Reconstitute(invoiceID, StatusSending, "Jane Doe", Email("jane@example.com"), nil)
	assert.Equal(t, invoiceID, inv.ID)
	assert.Equal(t, StatusSending, inv.Status)
	assert.True(t, inv.CanBeMarkedDelivered())
}

func TestClone(t *testing.T) {
	inv := newTestInvoice(t, mustLine(t, "Desk", 1, 100))
	clone := inv.Clone()
	clone.LineItems[0].ProductName = "Mutated"
	clone.Status = StatusSending
	assert.Equal(t, "Desk", inv.LineItems[0].ProductName)
	assert.Equal(t, StatusDraft, inv.Status)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"draft", "sending", "sent-to-client"} {
		parsed, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}
	_, err := ParseStatus("archived")
	require.Error(t, err)
}
