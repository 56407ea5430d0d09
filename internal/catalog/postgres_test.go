package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func setupPostgres(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresStore(mock), mock
}

func TestPostgresFindProduct(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT id, name, unit_price FROM products WHERE id").
		WithArgs("P001").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "unit_price"}).AddRow("P001", "High-performance laptop", int64(30000)))

	p, err := store.FindProduct(context.Background(), "P001")
	require.NoError(t, err)
	require.Equal(t, Product{ID: "P001", Name: "High-performance laptop", UnitPrice: 30000}, p)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindProductNotFound(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT id, name, unit_price FROM products WHERE id").
		WithArgs("P404").
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FindProduct(context.Background(), "P404")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindCoupon(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT code, description, discount_amount FROM coupons WHERE code").
		WithArgs("SAVE500").
		WillReturnRows(pgxmock.NewRows([]string{"code", "description", "discount_amount"}).AddRow("SAVE500", "Instant 500 off", int64(500)))

	c, err := store.FindCoupon(context.Background(), "SAVE500")
	require.NoError(t, err)
	require.Equal(t, Money(500), c.DiscountAmount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindCouponErrors(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT code, description, discount_amount FROM coupons WHERE code").
		WithArgs("NOPE").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT code, description, discount_amount FROM coupons WHERE code").
		WithArgs("SAVE100").
		WillReturnError(errors.New("connection reset"))

	_, err := store.FindCoupon(context.Background(), "NOPE")
	require.ErrorIs(t, err, ErrCouponNotFound)

	_, err = store.FindCoupon(context.Background(), "SAVE100")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrCouponNotFound)
	require.Contains(t, err.Error(), "select coupon")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListProducts(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT id, name, unit_price FROM products ORDER BY id").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "unit_price"}).
			AddRow("P001", "Laptop", int64(30000)).
			AddRow("P002", "Headphones", int64(5000)))

	products, err := store.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, "P002", products[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListCouponsEmpty(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectQuery("SELECT code, description, discount_amount FROM coupons ORDER BY code").
		WillReturnRows(pgxmock.NewRows([]string{"code", "description", "discount_amount"}))

	coupons, err := store.ListCoupons(context.Background())
	require.NoError(t, err)
	require.NotNil(t, coupons)
	require.Empty(t, coupons)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSeedUpserts(t *testing.T) {
	store, mock := setupPostgres(t)
	mock.ExpectExec("INSERT INTO products").
		WithArgs("P001", "Laptop", int64(30000)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO coupons").
		WithArgs("SAVE100", "Instant 100 off", int64(100)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := Seed(context.Background(), store,
		[]Product{{ID: "P001", Name: "Laptop", UnitPrice: 30000}},
		[]Coupon{{Code: "SAVE100", Description: "Instant 100 off", DiscountAmount: 100}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	store := NewPostgresStore(mock)
	mock.ExpectPing()
	require.NoError(t, store.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateURL(t *testing.T) {
	require.Equal(t, "pgx5://u:p@localhost:5432/db", migrateURL("postgres://u:p@localhost:5432/db"))
	require.Equal(t, "pgx5://localhost/db", migrateURL(" postgresql://localhost/db "))
	require.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}
