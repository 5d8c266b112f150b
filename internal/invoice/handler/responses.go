package handler

import "invoicer/internal/invoice/models"

type lineItemResponse struct {
	ID          string `json:"id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	TotalPrice  int64  `json:"total_price"`
}

type invoiceResponse struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	LineItems     []lineItemResponse `json:"line_items"`
	Total         int64              `json:"total"`
}

func invoiceResponseFrom(inv *models.Invoice) invoiceResponse {
	resp := invoiceResponse{
		ID:            inv.ID.String(),
		Status:        inv.Status.String(),
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail.String(),
		LineItems:     make([]lineItemResponse, 0, len(inv.LineItems)),
		Total:         inv.Total().Int64(),
	}
	for _, li := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, lineItemResponse{
			ID:          li.ID.String(),
			ProductName: li.ProductName,
			Quantity:    li.Quantity.Int(),
			UnitPrice:   li.UnitPrice.Int(),
			TotalPrice:  li.Total().Int64(),
		})
	}
	return resp
}
