package catalog

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrProductNotFound is returned when no product matches the requested id.
	ErrProductNotFound = errors.New("product not found")
	// ErrCouponNotFound is returned when no coupon matches the requested code.
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrInvalidEntry is returned when attempting to store an entry with a blank key or negative amount.
	ErrInvalidEntry = errors.New("invalid catalog entry")
)

// Reader exposes the read-only lookups consumed by pricing and listing.
type Reader interface {
	FindProduct(ctx context.Context, id string) (Product, error)
	FindCoupon(ctx context.Context, code string) (Coupon, error)
	ListProducts(ctx context.Context) ([]Product, error)
	ListCoupons(ctx context.Context) ([]Coupon, error)
}

// Writer is used by seeding routines only.
type Writer interface {
	SaveProduct(ctx context.Context, p Product) error
	SaveCoupon(ctx context.Context, c Coupon) error
}

// Store combines read and write access to a catalog backend.
type Store interface {
	Reader
	Writer
	Ping(ctx context.Context) error
}

func validateProduct(p Product) error {
	if p.ID == "" || p.UnitPrice < 0 {
		return ErrInvalidEntry
	}
	return nil
}

func validateCoupon(c Coupon) error {
	if c.Code == "" || c.DiscountAmount < 0 {
		return ErrInvalidEntry
	}
	return nil
}

func sortProducts(products []Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
}

func sortCoupons(coupons []Coupon) {
	sort.Slice(coupons, func(i, j int) bool { return coupons[i].Code < coupons[j].Code })
}
