package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OverrideSweeper deletes permission overrides belonging to deactivated
// users. Overrides are dormant while the account is inactive; the sweep keeps
// the table from accumulating rows that would silently re-apply on
// reactivation.
type OverrideSweeper struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewOverrideSweeper constructs an OverrideSweeper.
func NewOverrideSweeper(pool *pgxpool.Pool, logger *slog.Logger) *OverrideSweeper {
	return &OverrideSweeper{pool: pool, logger: logger}
}

// Handle processes TaskOverrideSweep tasks.
func (s *OverrideSweeper) Handle(ctx context.Context, _ *asynq.Task) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM permission_overrides po
		USING users u
		WHERE u.id = po.user_id AND u.is_active = FALSE`)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("override sweep failed", slog.Any("error", err))
		}
		return err
	}
	if s.logger != nil {
		s.logger.Info("override sweep executed",
			slog.String("job", TaskOverrideSweep),
			slog.Int64("removed", tag.RowsAffected()))
	}
	return nil
}
