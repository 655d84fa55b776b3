package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]Order, error)
	MarkPaid(ctx context.Context, orderID, paymentRef string) error
	MarkPaymentFailed(ctx context.Context, orderID, reason string) error
	MarkCancelled(ctx context.Context, orderID string) error
	MarkConfirmed(ctx context.Context, orderID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, buyer_id, status, name, email, phone, address, pincode, city, state,
                             items_total, shipping_amount, total_amount, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.BuyerID, string(o.Status),
		o.Contact.Name, o.Contact.Email, o.Contact.Phone, o.Contact.Address,
		o.Contact.Pincode, o.Contact.City, o.Contact.State,
		o.ItemsTotal, o.ShippingAmount, o.TotalAmount, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, title, quantity, kind, rental_days,
                                      real_price, discount_pct, unit_price, line_total)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			uuid.NewString(), o.ID, it.ProductID, it.Title, it.Quantity, string(it.Kind),
			it.RentalDays, it.RealPrice, it.DiscountPct, it.UnitPrice, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var (
		o      Order
		status string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id, status, name, email, phone, address, pincode, city, state,
                items_total, shipping_amount, total_amount, payment_ref, failure_reason, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.BuyerID, &status,
		&o.Contact.Name, &o.Contact.Email, &o.Contact.Phone, &o.Contact.Address,
		&o.Contact.Pincode, &o.Contact.City, &o.Contact.State,
		&o.ItemsTotal, &o.ShippingAmount, &o.TotalAmount, &o.PaymentRef, &o.FailureReason, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	o.Status = Status(status)

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repo) ListByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, status, items_total, shipping_amount, total_amount, payment_ref, failure_reason, created_at
         FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var (
			o      Order
			status string
		)
		if err := rows.Scan(&o.ID, &o.BuyerID, &status, &o.ItemsTotal, &o.ShippingAmount,
			&o.TotalAmount, &o.PaymentRef, &o.FailureReason, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Status = Status(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *repo) MarkPaid(ctx context.Context, orderID, paymentRef string) error {
	return r.setStatus(ctx, orderID, StatusPaid, paymentRef, "")
}

func (r *repo) MarkPaymentFailed(ctx context.Context, orderID, reason string) error {
	return r.setStatus(ctx, orderID, StatusPaymentFailed, "", reason)
}

func (r *repo) MarkCancelled(ctx context.Context, orderID string) error {
	return r.setStatus(ctx, orderID, StatusCancelled, "", "")
}

func (r *repo) MarkConfirmed(ctx context.Context, orderID string) error {
	return r.setStatus(ctx, orderID, StatusConfirmed, "", "")
}

func (r *repo) setStatus(ctx context.Context, orderID string, status Status, paymentRef, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders
         SET status = $2,
             payment_ref = CASE WHEN $3 <> '' THEN $3 ELSE payment_ref END,
             failure_reason = CASE WHEN $4 <> '' THEN $4 ELSE failure_reason END
         WHERE id = $1`,
		orderID, string(status), paymentRef, reason)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (r *repo) loadItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, title, quantity, kind, rental_days, real_price, discount_pct, unit_price, line_total
         FROM order_items WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			it   Item
			kind string
		)
		if err := rows.Scan(&it.ProductID, &it.Title, &it.Quantity, &kind, &it.RentalDays,
			&it.RealPrice, &it.DiscountPct, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		it.Kind = pricing.Kind(kind)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
