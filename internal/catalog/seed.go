package catalog

import (
	"context"
	"fmt"
)

// DefaultProducts is the sample catalog loaded at startup when seeding is enabled.
func DefaultProducts() []Product {
	return []Product{
		{ID: "P001", Name: "High-performance laptop", UnitPrice: 30000},
		{ID: "P002", Name: "Wireless noise-cancelling headphones", UnitPrice: 5000},
		{ID: "P003", Name: "Smart watch", UnitPrice: 8000},
		{ID: "P004", Name: "4K monitor", UnitPrice: 12000},
	}
}

// DefaultCoupons is the sample set of fixed-amount coupons.
func DefaultCoupons() []Coupon {
	return []Coupon{
		{Code: "SAVE100", Description: "Instant 100 off", DiscountAmount: 100},
		{Code: "SAVE500", Description: "Instant 500 off", DiscountAmount: 500},
		{Code: "BIGSAVE", Description: "Super saver: 1000 off", DiscountAmount: 1000},
		{Code: "BONUS200", Description: "Bonus reward: extra 200 off", DiscountAmount: 200},
	}
}

// Seed writes the given products and coupons through w. It stops at the first failure.
func Seed(ctx context.Context, w Writer, products []Product, coupons []Coupon) error {
	for _, p := range products {
		if err := w.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for _, c := range coupons {
		if err := w.SaveCoupon(ctx, c); err != nil {
			return fmt.Errorf("seed coupon %s: %w", c.Code, err)
		}
	}
	return nil
}

// SeedDefaults loads DefaultProducts and DefaultCoupons.
func SeedDefaults(ctx context.Context, w Writer) error {
	return Seed(ctx, w, DefaultProducts(), DefaultCoupons())
}

// Reseed loads the default catalog through w and drops the cached listings so
// ListProducts and ListCoupons match what FindProduct and FindCoupon return.
func Reseed(ctx context.Context, w Writer, cache *Cache) error {
	if err := SeedDefaults(ctx, w); err != nil {
		return err
	}
	if err := cache.Invalidate(ctx); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}
