package authz

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL-backed OverrideStore.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListOverrides returns all override rows for a user. Uniqueness on
// (user_id, permission) guarantees at most one row per pair, so the result
// order is immaterial to the resolver's fold.
func (r *Repository) ListOverrides(ctx context.Context, userID int64) ([]PermissionOverride, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, permission, granted FROM permission_overrides WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("authz: query overrides: %w", err)
	}
	defer rows.Close()

	var overrides []PermissionOverride
	for rows.Next() {
		var o PermissionOverride
		var perm string
		if err := rows.Scan(&o.UserID, &perm, &o.Granted); err != nil {
			return nil, fmt.Errorf("authz: scan override: %w", err)
		}
		o.Permission = Permission(perm)
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

// UpsertOverride atomically writes the single row for (user_id, permission).
// The unique constraint plus ON CONFLICT keeps concurrent writers from
// producing duplicate or contradictory rows.
func (r *Repository) UpsertOverride(ctx context.Context, userID int64, permission Permission, granted bool) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO permission_overrides (user_id, permission, granted, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, permission)
		DO UPDATE SET granted = EXCLUDED.granted, updated_at = NOW()`,
		userID, string(permission), granted)
	if err != nil {
		return fmt.Errorf("authz: upsert override: %w", err)
	}
	return nil
}
