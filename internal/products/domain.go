package products

import "time"

// Product is a merchant-owned catalog row. MerchantID identifies the tenant
// the row belongs to; CreatedBy records the user who created it.
type Product struct {
	ID          int64     `json:"id"`
	MerchantID  int64     `json:"merchant_id"`
	CreatedBy   int64     `json:"created_by"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
