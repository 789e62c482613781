package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendora/vendora/internal/authz"
)

// Repository defines product persistence.
type Repository interface {
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context, req ListProductsRequest, scope authz.ScopeFilter) ([]Product, int, error)
	Create(ctx context.Context, product Product) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error
	OwnerInfo(ctx context.Context, id int64) (authz.OwnerInfo, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productColumns = `id, merchant_id, created_by, name, sku, description, price, currency, active,
	created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.MerchantID, &p.CreatedBy, &p.Name, &p.SKU, &p.Description,
		&p.Price, &p.Currency, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authz.ErrNotFound
		}
		return nil, fmt.Errorf("products: scan: %w", err)
	}
	return &p, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// List applies the authorization scope where it maps onto catalog columns.
// Products carry no customer column, so only the merchant constraint narrows
// the result; buyers browse the full catalog.
func (r *repository) List(ctx context.Context, req ListProductsRequest, scope authz.ScopeFilter) ([]Product, int, error) {
	if scope.IsDenyAll() {
		return nil, 0, nil
	}

	var conditions []string
	var args []any
	argPos := 1

	if v, ok := scope.Constraints()["merchant_id"]; ok {
		conditions = append(conditions, fmt.Sprintf("merchant_id = $%d", argPos))
		args = append(args, v)
		argPos++
	}
	if req.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, argPos, argPos+1)
	args = append(args, limit, req.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (merchant_id, created_by, name, sku, description, price, currency, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.MerchantID, p.CreatedBy, p.Name, p.SKU, p.Description, p.Price, p.Currency, p.Active).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("products: create: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]any) error {
	query := "UPDATE products SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, field := range []string{"name", "description", "price", "active"} {
		if v, ok := updates[field]; ok {
			query += fmt.Sprintf(", %s = $%d", field, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)

	_, err := r.pool.Exec(ctx, query, args...)
	return err
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return authz.ErrNotFound
	}
	return nil
}

// OwnerInfo resolves the owning identities recorded on a product.
func (r *repository) OwnerInfo(ctx context.Context, id int64) (authz.OwnerInfo, error) {
	var info authz.OwnerInfo
	err := r.pool.QueryRow(ctx,
		`SELECT created_by, merchant_id FROM products WHERE id = $1`, id).
		Scan(&info.OwnerID, &info.MerchantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authz.OwnerInfo{}, authz.ErrNotFound
		}
		return authz.OwnerInfo{}, fmt.Errorf("products: owner info: %w", err)
	}
	return info, nil
}
