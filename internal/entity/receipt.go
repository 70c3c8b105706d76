package entity

import (
	"time"

	"github.com/google/uuid"
)

// Receipt represents a parsed receipt for data transfer between layers.
type Receipt struct {
	ID           uuid.UUID     `json:"id"`
	StoreName    string        `json:"store_name"`
	PurchaseDate time.Time     `json:"purchase_date"`
	DateFound    bool          `json:"date_found"`
	TotalAmount  float64       `json:"total_amount"`
	Items        []ReceiptItem `json:"items,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ReceiptItem is one purchased line item on a receipt.
type ReceiptItem struct {
	ID        uuid.UUID `json:"id"`
	ReceiptID uuid.UUID `json:"receipt_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}
