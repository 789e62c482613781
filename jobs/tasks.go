package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOverrideSweep removes permission overrides left behind by
	// deactivated accounts.
	TaskOverrideSweep = "authz:override_sweep"
	// TaskOrderExpiry cancels pending orders that were never confirmed.
	TaskOrderExpiry = "orders:expire_stale"
)

// OrderExpiryPayload bounds how old a pending order may be before expiry.
type OrderExpiryPayload struct {
	MaxAge time.Duration `json:"max_age"`
}

// NewOverrideSweepTask constructs the override sweep task.
func NewOverrideSweepTask() *asynq.Task {
	return asynq.NewTask(TaskOverrideSweep, nil)
}

// NewOrderExpiryTask constructs the stale-order expiry task.
func NewOrderExpiryTask(maxAge time.Duration) (*asynq.Task, error) {
	data, err := json.Marshal(OrderExpiryPayload{MaxAge: maxAge})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderExpiry, data), nil
}
