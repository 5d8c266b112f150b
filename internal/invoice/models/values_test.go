package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "invoicer/pkg/domain-errors"
)

func TestNewEmail(t *testing.T) {
	t.Run("normalizes case and whitespace", func(t *testing.T) {
		email, err := NewEmail("  Jane.Doe@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", email.String())
	})

	t.Run("equality is value based on the normalized form", func(t *testing.T) {
		a, err := NewEmail("JANE@example.com")
		require.NoError(t, err)
		b, err := NewEmail("jane@EXAMPLE.com ")
		require.NoError(t, err)
		assert.True(t, a.Equals(b))
	})

	t.Run("rejects invalid addresses", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "no-at-sign", "two@@example.com", "name <jane@example.com>"} {
			_, err := NewEmail(raw)
			require.Error(t, err, "expected %q to be rejected", raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

func TestNewQuantity(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive accepted", 1, false},
		{"large accepted", 10000, false},
		{"zero rejected", 0, true},
		{"negative rejected", -3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuantity(tt.value)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, q.Int())
		})
	}
}

func TestNewUnitPrice(t *testing.T) {
	_, err := NewUnitPrice(0)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = NewUnitPrice(-100)
	require.Error(t, err)

	p, err := NewUnitPrice(250)
	require.NoError(t, err)
	assert.Equal(t, 250, p.Int())
}

func TestLineItem(t *testing.T) {
	t.Run("computes derived total", func(t *testing.T) {
		li, err := NewLineItem("Standing Desk", 2, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(200), li.Total().Int64())
	})

	t.Run("assigns independent identities", func(t *testing.T) {
		a, err := NewLineItem("Chair", 1, 50)
		require.NoError(t, err)
		b, err := NewLineItem("Chair", 1, 50)
		require.NoError(t, err)
		assert.False(t, a.Equals(b), "identical attributes must still be distinct entities")
		assert.True(t, a.Equals(a))
	})

	t.Run("rejects whitespace-only product name", func(t *testing.T) {
		_, err := NewLineItem("   ", 1, 50)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects non-positive quantity and price", func(t *testing.T) {
		_, err := NewLineItem("Chair", 0, 50)
		require.Error(t, err)
		_, err = NewLineItem("Chair", 1, 0)
		require.Error(t, err)
	})
}
