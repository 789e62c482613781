package orders

// CreateOrderRequest carries the fields a caller may set when placing an order.
type CreateOrderRequest struct {
	MerchantID  int64   `json:"merchant_id" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3"`
	TotalAmount float64 `json:"total_amount" validate:"required,gt=0"`
	Notes       *string `json:"notes,omitempty"`
}

// UpdateOrderRequest carries the mutable fields of a pending order.
type UpdateOrderRequest struct {
	TotalAmount *float64 `json:"total_amount,omitempty" validate:"omitempty,gt=0"`
	Notes       *string  `json:"notes,omitempty"`
}

// CancelOrderRequest carries the cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// ListOrdersRequest filters and paginates order listings. Scope constraints
// are injected by the authorization layer, never by the caller.
type ListOrdersRequest struct {
	Status *Status
	Limit  int
	Offset int
}
