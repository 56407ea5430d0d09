package catalog

import (
	"context"
	"errors"

	"github.com/noah-isme/toko-pricing/internal/resilience"
)

// Guarded routes reader calls through a circuit breaker. Not-found results and
// caller cancellations are not counted as backend failures.
type Guarded struct {
	next    Store
	breaker *resilience.Breaker
}

// NewGuarded wraps next with breaker. A nil breaker leaves calls unguarded.
func NewGuarded(next Store, breaker *resilience.Breaker) *Guarded {
	return &Guarded{next: next, breaker: breaker}
}

// IsExpectedError reports errors that describe the request rather than backend health.
func IsExpectedError(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, context.Canceled)
}

func (g *Guarded) FindProduct(ctx context.Context, id string) (Product, error) {
	return resilience.Call(g.breaker, func() (Product, error) { return g.next.FindProduct(ctx, id) })
}

func (g *Guarded) FindCoupon(ctx context.Context, code string) (Coupon, error) {
	return resilience.Call(g.breaker, func() (Coupon, error) { return g.next.FindCoupon(ctx, code) })
}

func (g *Guarded) ListProducts(ctx context.Context) ([]Product, error) {
	return resilience.Call(g.breaker, func() ([]Product, error) { return g.next.ListProducts(ctx) })
}

func (g *Guarded) ListCoupons(ctx context.Context) ([]Coupon, error) {
	return resilience.Call(g.breaker, func() ([]Coupon, error) { return g.next.ListCoupons(ctx) })
}

func (g *Guarded) SaveProduct(ctx context.Context, p Product) error {
	_, err := resilience.Call(g.breaker, func() (struct{}, error) { return struct{}{}, g.next.SaveProduct(ctx, p) })
	return err
}

func (g *Guarded) SaveCoupon(ctx context.Context, c Coupon) error {
	_, err := resilience.Call(g.breaker, func() (struct{}, error) { return struct{}{}, g.next.SaveCoupon(ctx, c) })
	return err
}

// Ping bypasses the breaker so readiness reflects the backend directly.
func (g *Guarded) Ping(ctx context.Context) error {
	return g.next.Ping(ctx)
}
