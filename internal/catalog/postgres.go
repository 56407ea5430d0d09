package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgxpool.Pool used by PostgresStore.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const (
	upsertProductSQL = `INSERT INTO products (id, name, unit_price) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, unit_price = EXCLUDED.unit_price`
	upsertCouponSQL = `INSERT INTO coupons (code, description, discount_amount) VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description, discount_amount = EXCLUDED.discount_amount`
	selectProductSQL = `SELECT id, name, unit_price FROM products WHERE id = $1`
	selectCouponSQL  = `SELECT code, description, discount_amount FROM coupons WHERE code = $1`
	listProductsSQL  = `SELECT id, name, unit_price FROM products ORDER BY id`
	listCouponsSQL   = `SELECT code, description, discount_amount FROM coupons ORDER BY code`
)

// PostgresStore reads the catalog from the products and coupons tables.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pgx pool (or any DBTX) as a catalog store.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// SaveProduct upserts a product row.
func (s *PostgresStore) SaveProduct(ctx context.Context, p Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertProductSQL, p.ID, p.Name, p.UnitPrice); err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// SaveCoupon upserts a coupon row.
func (s *PostgresStore) SaveCoupon(ctx context.Context, c Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, upsertCouponSQL, c.Code, c.Description, c.DiscountAmount); err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}
	return nil
}

// FindProduct selects a product by id.
func (s *PostgresStore) FindProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.db.QueryRow(ctx, selectProductSQL, id).Scan(&p.ID, &p.Name, &p.UnitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// FindCoupon selects a coupon by code.
func (s *PostgresStore) FindCoupon(ctx context.Context, code string) (Coupon, error) {
	var c Coupon
	err := s.db.QueryRow(ctx, selectCouponSQL, code).Scan(&c.Code, &c.Description, &c.DiscountAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Coupon{}, ErrCouponNotFound
		}
		return Coupon{}, fmt.Errorf("select coupon: %w", err)
	}
	return c, nil
}

// ListProducts returns every product ordered by id.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	out := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// ListCoupons returns every coupon ordered by code.
func (s *PostgresStore) ListCoupons(ctx context.Context) ([]Coupon, error) {
	rows, err := s.db.Query(ctx, listCouponsSQL)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()
	out := make([]Coupon, 0)
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.Code, &c.Description, &c.DiscountAmount); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coupons: %w", err)
	}
	return out, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
