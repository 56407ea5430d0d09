package catalog

import (
	"context"
	"sync"
)

// MemoryStore keeps the catalog in process memory. Reads may run concurrently
// with each other and with seeding writes.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
	coupons  map[string]Coupon
}

// NewMemoryStore constructs an empty in-memory catalog.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]Product),
		coupons:  make(map[string]Coupon),
	}
}

// SaveProduct inserts or replaces a product keyed by id.
func (s *MemoryStore) SaveProduct(_ context.Context, p Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return nil
}

// SaveCoupon inserts or replaces a coupon keyed by code.
func (s *MemoryStore) SaveCoupon(_ context.Context, c Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	s.mu.Lock()
	s.coupons[c.Code] = c
	s.mu.Unlock()
	return nil
}

// FindProduct returns the product with the given id.
func (s *MemoryStore) FindProduct(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	p, ok := s.products[id]
	s.mu.RUnlock()
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

// FindCoupon returns the coupon with the given code. Codes are matched exactly.
func (s *MemoryStore) FindCoupon(_ context.Context, code string) (Coupon, error) {
	s.mu.RLock()
	c, ok := s.coupons[code]
	s.mu.RUnlock()
	if !ok {
		return Coupon{}, ErrCouponNotFound
	}
	return c, nil
}

// ListProducts returns every product ordered by id.
func (s *MemoryStore) ListProducts(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sortProducts(out)
	return out, nil
}

// ListCoupons returns every coupon ordered by code.
func (s *MemoryStore) ListCoupons(_ context.Context) ([]Coupon, error) {
	s.mu.RLock()
	out := make([]Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sortCoupons(out)
	return out, nil
}

// Ping always succeeds for the in-memory backend.
func (s *MemoryStore) Ping(context.Context) error { return nil }
