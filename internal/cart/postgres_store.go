package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

// PostgresStore persists cart snapshots in carts/cart_items tables. The
// pricing snapshot of each line is stored as JSON so a later catalog edit
// cannot reach back into an existing cart.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, buyerID string) (*Cart, error) {
	const cartQuery = `SELECT id, buyer_id, updated_at FROM carts WHERE buyer_id = $1`

	var c Cart
	err := s.db.QueryRowContext(ctx, cartQuery, buyerID).Scan(&c.ID, &c.BuyerID, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, title, pricing, tier_index, stocks, quantity
         FROM cart_items WHERE cart_id = $1 ORDER BY position`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("select cart_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			l   Line
			raw []byte
		)
		if err := rows.Scan(&l.ProductID, &l.Title, &raw, &l.TierIndex, &l.Stocks, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart_item: %w", err)
		}
		var p pricing.Pricing
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode line pricing: %w", err)
		}
		l.Pricing = p
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &c, nil
}

func (s *PostgresStore) Save(ctx context.Context, c *Cart) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	const upsertCartSQL = `
INSERT INTO carts (id, buyer_id, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (buyer_id) DO UPDATE
SET updated_at = EXCLUDED.updated_at
RETURNING id
`
	if err = tx.QueryRowContext(ctx, upsertCartSQL, c.ID, c.BuyerID, c.UpdatedAt).Scan(&c.ID); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, c.ID); err != nil {
		return fmt.Errorf("delete cart_items: %w", err)
	}

	if len(c.Lines) > 0 {
		stmt, prepErr := tx.PrepareContext(ctx,
			`INSERT INTO cart_items (id, cart_id, product_id, title, pricing, tier_index, stocks, quantity, position)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
		if prepErr != nil {
			err = fmt.Errorf("prepare insert: %w", prepErr)
			return err
		}
		defer stmt.Close()

		for i, l := range c.Lines {
			raw, mErr := json.Marshal(l.Pricing)
			if mErr != nil {
				err = fmt.Errorf("encode line pricing: %w", mErr)
				return err
			}
			if _, err = stmt.ExecContext(ctx, uuid.NewString(), c.ID, l.ProductID, l.Title, raw, l.TierIndex, l.Stocks, l.Quantity, i); err != nil {
				return fmt.Errorf("insert cart_item: %w", err)
			}
		}
	}

	err = tx.Commit()
	return err
}

func (s *PostgresStore) Clear(ctx context.Context, buyerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM carts WHERE buyer_id = $1`, buyerID)
	return err
}
