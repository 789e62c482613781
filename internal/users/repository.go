package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/authz"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns all users ordered by id.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, role, merchant_id, is_active, created_at, updated_at
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &role, &u.MerchantID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("users: scan: %w", err)
		}
		u.Role = authz.Role(role)
		out = append(out, u)
	}
	return out, rows.Err()
}

// FindUserRef resolves the reference the permission resolver needs when
// authorizing override mutations.
func (r *Repository) FindUserRef(ctx context.Context, id int64) (authz.UserRef, error) {
	var ref authz.UserRef
	var role string
	err := r.pool.QueryRow(ctx,
		`SELECT id, role, merchant_id, is_active FROM users WHERE id = $1`, id).
		Scan(&ref.ID, &role, &ref.MerchantID, &ref.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.UserRef{}, authz.ErrNotFound
		}
		return authz.UserRef{}, fmt.Errorf("users: find ref: %w", err)
	}
	ref.Role = authz.Role(role)
	return ref, nil
}
