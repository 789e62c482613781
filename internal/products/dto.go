package products

// CreateProductRequest is the payload for creating a catalog row. MerchantID
// is only honored for admin callers; merchants always create under their own
// tenant.
type CreateProductRequest struct {
	MerchantID  int64   `json:"merchant_id" validate:"omitempty,gt=0"`
	Name        string  `json:"name" validate:"required,max=200"`
	SKU         string  `json:"sku" validate:"required,max=64"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
}

// UpdateProductRequest carries partial updates; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Active      *bool    `json:"active"`
}

// ListProductsRequest carries catalog list filters.
type ListProductsRequest struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}
