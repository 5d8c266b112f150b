package handler

import "invoicer/internal/invoice/service"

type createLineItemRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
}

type createInvoiceRequest struct {
	CustomerName  string                  `json:"customer_name"`
	CustomerEmail string                  `json:"customer_email"`
	LineItems     []createLineItemRequest `json:"line_items"`
}

func (r createInvoiceRequest) toInput() service.CreateInvoiceInput {
	in := service.CreateInvoiceInput{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
	}
	for _, li := range r.LineItems {
		in.LineItems = append(in.LineItems, service.CreateLineItemInput{
			ProductName: li.ProductName,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
		})
	}
	return in
}
