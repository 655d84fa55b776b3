package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentkaro/rentkaro/internal/pricing"
)

var productCols = []string{
	"id", "seller_id", "title", "category", "kind",
	"sale_real_price", "sale_discount_pct", "stocks", "moderation", "created_at",
}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestGetSaleProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	price := 1000.0
	discount := 20.0
	created := time.Unix(0, 0).UTC()

	mock.ExpectQuery("FROM products WHERE id").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("p1", "seller-1", "Camera", "electronics", "sale", &price, &discount, 5, "approved", created))

	p, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, pricing.KindSale, p.Pricing.Kind)
	assert.Equal(t, 1000.0, p.Pricing.Sale.RealPrice)
	assert.Equal(t, 20.0, p.Pricing.Sale.DiscountPct)
	assert.Equal(t, 5, p.Stocks)
	assert.Equal(t, ModerationApproved, p.Moderation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRentalProductLoadsTiers(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	created := time.Unix(0, 0).UTC()

	mock.ExpectQuery("FROM products WHERE id").
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows(productCols).
			AddRow("p2", "seller-1", "Drill", "tools", "rental", nil, nil, 3, "approved", created))
	mock.ExpectQuery("FROM rental_tiers WHERE product_id").
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"days", "real_price", "discount_pct"}).
			AddRow(1, 120.0, 0.0).
			AddRow(3, 300.0, 10.0))

	p, err := repo.Get(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, pricing.KindRental, p.Pricing.Kind)
	require.Len(t, p.Pricing.Tiers, 2)
	assert.Equal(t, pricing.Tier{Days: 3, RealPrice: 300, DiscountPct: 10}, p.Pricing.Tiers[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMissingProduct(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectQuery("FROM products WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetModeration(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE products SET moderation").
		WithArgs("p1", "approved").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetModeration(context.Background(), "p1", ModerationApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetModerationMissing(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE products SET moderation").
		WithArgs("ghost", "rejected").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.SetModeration(context.Background(), "ghost", ModerationRejected)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReserveDecrementsAtomically(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stocks FROM products").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"stocks"}).AddRow(5))
	mock.ExpectQuery("SELECT stocks FROM products").
		WithArgs("p2").
		WillReturnRows(pgxmock.NewRows([]string{"stocks"}).AddRow(3))
	mock.ExpectExec("UPDATE products SET stocks").
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE products SET stocks").
		WithArgs("p2", 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	res, err := repo.Reserve(context.Background(), "order-1", []Line{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Depleted)
	assert.Equal(t, []Line{{ProductID: "p1", Quantity: 2}, {ProductID: "p2", Quantity: 1}}, res.Reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveShortStockRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stocks FROM products").
		WithArgs("p1").
		WillReturnRows(pgxmock.NewRows([]string{"stocks"}).AddRow(1))
	mock.ExpectRollback()

	res, err := repo.Reserve(context.Background(), "order-2", []Line{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	require.Len(t, res.Depleted, 1)
	assert.Equal(t, DepletedLine{ProductID: "p1", Requested: 2, Available: 1}, res.Depleted[0])
	assert.Empty(t, res.Reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownProductTreatedAsDepleted(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT stocks FROM products").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	res, err := repo.Reserve(context.Background(), "order-3", []Line{{ProductID: "missing", Quantity: 1}})
	require.NoError(t, err)
	require.Len(t, res.Depleted, 1)
	assert.Equal(t, 0, res.Depleted[0].Available)
}

func TestRelease(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresRepository(mock)

	mock.ExpectExec("UPDATE products SET stocks").
		WithArgs("p1", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Release(context.Background(), []Line{{ProductID: "p1", Quantity: 2}}))
	require.NoError(t, mock.ExpectationsWereMet())
}
