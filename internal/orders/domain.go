package orders

import "time"

// Status is an order lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

// transitions encodes the forward lifecycle. Refunded is terminal and not
// reachable through the cancellation gate.
var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s Status) Cancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Order is a customer purchase against a merchant.
type Order struct {
	ID                 int64      `json:"id"`
	CustomerID         int64      `json:"customer_id"`
	MerchantID         int64      `json:"merchant_id"`
	Status             Status     `json:"status"`
	Currency           string     `json:"currency"`
	TotalAmount        float64    `json:"total_amount"`
	Notes              *string    `json:"notes,omitempty"`
	CancelledBy        *int64     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
