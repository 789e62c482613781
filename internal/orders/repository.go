package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/platform/db"
)

// Repository defines order persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, req ListOrdersRequest, scope authz.ScopeFilter) ([]Order, int, error)
	Create(ctx context.Context, order Order) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	UpdateStatus(ctx context.Context, id int64, status Status, userID int64, reason *string) error
	OwnerInfo(ctx context.Context, id int64) (authz.OwnerInfo, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderColumns = `id, customer_id, merchant_id, status, currency, total_amount, notes,
	cancelled_by, cancelled_at, cancellation_reason, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.CustomerID, &o.MerchantID, &status, &o.Currency, &o.TotalAmount,
		&o.Notes, &o.CancelledBy, &o.CancelledAt, &o.CancellationReason, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authz.ErrNotFound
		}
		return nil, fmt.Errorf("orders: scan: %w", err)
	}
	o.Status = Status(status)
	return &o, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

// List applies the caller's filters plus the authorization scope as SQL
// equality constraints. A deny-all scope returns an empty page without
// touching the database.
func (r *repository) List(ctx context.Context, req ListOrdersRequest, scope authz.ScopeFilter) ([]Order, int, error) {
	if scope.IsDenyAll() {
		return nil, 0, nil
	}

	var conditions []string
	var args []any
	argPos := 1

	constraints := scope.Constraints()
	fields := make([]string, 0, len(constraints))
	for field := range constraints {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", field, argPos))
		args = append(args, constraints[field])
		argPos++
	}

	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*req.Status))
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM orders %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("orders: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, o Order) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_id, merchant_id, status, currency, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		o.CustomerID, o.MerchantID, string(o.Status), o.Currency, o.TotalAmount, o.Notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("orders: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE orders SET updated_at = NOW()"
	var args []any
	argPos := 1

	if v, ok := updates["total_amount"]; ok {
		query += fmt.Sprintf(", total_amount = $%d", argPos)
		args = append(args, v)
		argPos++
	}
	if v, ok := updates["notes"]; ok {
		query += fmt.Sprintf(", notes = $%d", argPos)
		args = append(args, v)
		argPos++
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *repository) UpdateStatus(ctx context.Context, id int64, status Status, userID int64, reason *string) error {
	if status == StatusCancelled {
		// Re-check the status under lock so a concurrent confirm cannot
		// slip past the pre-cancel guard evaluated by the service.
		return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
			var current string
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&current)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return authz.ErrNotFound
				}
				return fmt.Errorf("orders: lock: %w", err)
			}
			if !Status(current).Cancellable() {
				return fmt.Errorf("%w: order is %s", authz.ErrInvalidState, current)
			}
			_, err = tx.Exec(ctx, `
				UPDATE orders
				SET status = $1, cancelled_by = $2, cancelled_at = $3, cancellation_reason = $4, updated_at = NOW()
				WHERE id = $5`,
				string(status), userID, time.Now(), reason, id)
			return err
		})
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		string(status), id)
	return err
}

// OwnerInfo resolves the owning identities recorded on an order.
func (r *repository) OwnerInfo(ctx context.Context, id int64) (authz.OwnerInfo, error) {
	var info authz.OwnerInfo
	err := r.pool.QueryRow(ctx,
		`SELECT customer_id, merchant_id FROM orders WHERE id = $1`, id).
		Scan(&info.OwnerID, &info.MerchantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.OwnerInfo{}, authz.ErrNotFound
		}
		return authz.OwnerInfo{}, fmt.Errorf("orders: owner info: %w", err)
	}
	return info, nil
}
