package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Get(ctx context.Context, productID string) (Product, error)
	ListApproved(ctx context.Context, category string) ([]Product, error)
	SetModeration(ctx context.Context, productID string, status ModerationStatus) error
	Reserve(ctx context.Context, orderID string, lines []Line) (ReserveResult, error)
	Release(ctx context.Context, lines []Line) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, seller_id, title, category, kind, sale_real_price, sale_discount_pct, stocks, moderation, created_at`

func (r *PostgresRepository) Get(ctx context.Context, productID string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}

	if p.Pricing.Kind == pricing.KindRental {
		tiers, err := r.loadTiers(ctx, p.ID)
		if err != nil {
			return Product{}, err
		}
		p.Pricing.Tiers = tiers
	}

	return p, nil
}

func (r *PostgresRepository) ListApproved(ctx context.Context, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE moderation='approved'`
	args := []any{}
	if category != "" {
		query += ` AND category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range products {
		if products[i].Pricing.Kind != pricing.KindRental {
			continue
		}
		tiers, err := r.loadTiers(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Pricing.Tiers = tiers
	}

	return products, nil
}

func (r *PostgresRepository) SetModeration(ctx context.Context, productID string, status ModerationStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET moderation=$2 WHERE id=$1`, productID, string(status))
	if err != nil {
		return fmt.Errorf("update moderation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Reserve decrements stock for all lines atomically:
// - locks each product row (SELECT ... FOR UPDATE)
// - if any line is short, rolls back and returns depleted info (no mutation)
// - else decrements stock for all lines and commits
func (r *PostgresRepository) Reserve(ctx context.Context, orderID string, lines []Line) (ReserveResult, error) {
	res := ReserveResult{}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	type locked struct {
		productID string
		requested int
		available int
	}
	lockedRows := make([]locked, 0, len(lines))

	for _, line := range lines {
		var available int
		err := tx.QueryRow(ctx, `SELECT stocks FROM products WHERE id=$1 FOR UPDATE`, line.ProductID).Scan(&available)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				available = 0
			} else {
				return res, err
			}
		}

		lockedRows = append(lockedRows, locked{productID: line.ProductID, requested: line.Quantity, available: available})
		if available < line.Quantity {
			res.Depleted = append(res.Depleted, DepletedLine{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: available,
			})
		}
	}

	if len(res.Depleted) > 0 {
		return res, nil
	}

	for _, lr := range lockedRows {
		if _, err := tx.Exec(ctx, `UPDATE products SET stocks = stocks - $2 WHERE id=$1`, lr.productID, lr.requested); err != nil {
			return res, err
		}
		res.Reserved = append(res.Reserved, Line{ProductID: lr.productID, Quantity: lr.requested})
	}

	if err := tx.Commit(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// Release restores stock for a reservation whose payment did not complete.
func (r *PostgresRepository) Release(ctx context.Context, lines []Line) error {
	for _, line := range lines {
		if _, err := r.pool.Exec(ctx, `UPDATE products SET stocks = stocks + $2 WHERE id=$1`, line.ProductID, line.Quantity); err != nil {
			return fmt.Errorf("release stock for %s: %w", line.ProductID, err)
		}
	}
	return nil
}

func (r *PostgresRepository) loadTiers(ctx context.Context, productID string) ([]pricing.Tier, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT days, real_price, discount_pct FROM rental_tiers WHERE product_id=$1 ORDER BY position`, productID)
	if err != nil {
		return nil, fmt.Errorf("select rental_tiers: %w", err)
	}
	defer rows.Close()

	var tiers []pricing.Tier
	for rows.Next() {
		var t pricing.Tier
		if err := rows.Scan(&t.Days, &t.RealPrice, &t.DiscountPct); err != nil {
			return nil, fmt.Errorf("scan rental_tier: %w", err)
		}
		tiers = append(tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return tiers, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p           Product
		kind        string
		realPrice   *float64
		discountPct *float64
		moderation  string
	)
	if err := row.Scan(&p.ID, &p.SellerID, &p.Title, &p.Category, &kind, &realPrice, &discountPct, &p.Stocks, &moderation, &p.CreatedAt); err != nil {
		return Product{}, err
	}

	p.Moderation = ModerationStatus(moderation)
	p.Pricing.Kind = pricing.Kind(kind)
	if p.Pricing.Kind == pricing.KindSale {
		if realPrice != nil {
			p.Pricing.Sale.RealPrice = *realPrice
		}
		if discountPct != nil {
			p.Pricing.Sale.DiscountPct = *discountPct
		}
	}
	return p, nil
}
