package models

import (
	"strings"

	id "invoicer/pkg/domain"
	dErrors "invoicer/pkg/domain-errors"
)

// LineItem is a priced line owned by exactly one invoice. Identity is the ID
// alone: two lines with identical attributes are still distinct entities.
type LineItem struct {
	ID          id.LineItemID
	ProductName string
	Quantity    Quantity
	UnitPrice   UnitPrice
}

// NewLineItem validates attributes and assigns a fresh identity.
// Whitespace-only product names are rejected: the name must be non-empty
// after trimming.
func NewLineItem(productName string, quantity, unitPrice int) (LineItem, error) {
	if strings.TrimSpace(productName) == "" {
		return LineItem{}, dErrors.New(dErrors.CodeValidation, "product name must not be empty")
	}
	q, err := NewQuantity(quantity)
	if err != nil {
		return LineItem{}, err
	}
	p, err := NewUnitPrice(unitPrice)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{
		ID:          id.NewLineItemID(),
		ProductName: productName,
		Quantity:    q,
		UnitPrice:   p,
	}, nil
}

// ReconstituteLineItem rebuilds a line item from storage without re-running
// business validation; stored state is assumed previously valid.
func ReconstituteLineItem(itemID id.LineItemID, productName string, quantity, unitPrice int) LineItem {
	return LineItem{
		ID:          itemID,
		ProductName: productName,
		Quantity:    Quantity(quantity),
		UnitPrice:   UnitPrice(unitPrice),
	}
}

// Total is the derived line amount, never persisted directly.
func (li LineItem) Total() Money {
	return Money(int64(li.Quantity) * int64(li.UnitPrice))
}

// Equals compares line items by identity only.
func (li LineItem) Equals(other LineItem) bool {
	return li.ID == other.ID
}
