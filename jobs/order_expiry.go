package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultOrderMaxAge = 24 * time.Hour

// OrderExpirer cancels pending orders that sat unconfirmed past their
// maximum age. Only pending rows qualify, so the expiry obeys the same
// pre-cancel status rule as the API path.
type OrderExpirer struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewOrderExpirer constructs an OrderExpirer.
func NewOrderExpirer(pool *pgxpool.Pool, logger *slog.Logger) *OrderExpirer {
	return &OrderExpirer{pool: pool, logger: logger}
}

// Handle processes TaskOrderExpiry tasks.
func (e *OrderExpirer) Handle(ctx context.Context, t *asynq.Task) error {
	var payload OrderExpiryPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	maxAge := payload.MaxAge
	if maxAge <= 0 {
		maxAge = defaultOrderMaxAge
	}

	tag, err := e.pool.Exec(ctx, `
		UPDATE orders
		SET status = 'cancelled',
		    cancelled_at = NOW(),
		    cancellation_reason = 'expired: never confirmed',
		    updated_at = NOW()
		WHERE status = 'pending' AND created_at < NOW() - make_interval(secs => $1)`,
		maxAge.Seconds())
	if err != nil {
		if e.logger != nil {
			e.logger.Error("order expiry failed", slog.Any("error", err))
		}
		return err
	}
	if e.logger != nil {
		e.logger.Info("order expiry executed",
			slog.String("job", TaskOrderExpiry),
			slog.Int64("cancelled", tag.RowsAffected()))
	}
	return nil
}
