package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/resilience"
)

// Service fronts a catalog Reader with listing caches. It satisfies Reader
// so the pricing engine and HTTP handlers share a single lookup path.
type Service struct {
	reader Reader
	cache  *Cache
	logger zerolog.Logger
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Reader Reader
	Cache  *Cache
	Logger zerolog.Logger
}

// NewService constructs a Service. Reader is required.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Reader == nil {
		return nil, errors.New("catalog reader is required")
	}
	return &Service{reader: cfg.Reader, cache: cfg.Cache, logger: cfg.Logger}, nil
}

// FindProduct resolves a single product. Lookups are never cached so prices stay current.
func (s *Service) FindProduct(ctx context.Context, id string) (Product, error) {
	return s.reader.FindProduct(ctx, id)
}

// FindCoupon resolves a single coupon.
func (s *Service) FindCoupon(ctx context.Context, code string) (Coupon, error) {
	return s.reader.FindCoupon(ctx, code)
}

// ListProducts returns every product, served from cache when available.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	var cached []Product
	if ok, err := s.cache.GetJSON(ctx, productsListCacheKey, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", productsListCacheKey).Msg("catalog cache read failed")
	} else if ok {
		return cached, nil
	}
	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, productsListCacheKey, products); err != nil {
		s.logger.Warn().Err(err).Str("key", productsListCacheKey).Msg("catalog cache write failed")
	}
	return products, nil
}

// ListCoupons returns every coupon, served from cache when available.
func (s *Service) ListCoupons(ctx context.Context) ([]Coupon, error) {
	var cached []Coupon
	if ok, err := s.cache.GetJSON(ctx, couponsListCacheKey, &cached); err != nil {
		s.logger.Warn().Err(err).Str("key", couponsListCacheKey).Msg("catalog cache read failed")
	} else if ok {
		return cached, nil
	}
	coupons, err := s.reader.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, couponsListCacheKey, coupons); err != nil {
		s.logger.Warn().Err(err).Str("key", couponsListCacheKey).Msg("catalog cache write failed")
	}
	return coupons, nil
}

// AsAppError maps catalog errors onto HTTP-facing application errors.
func AsAppError(err error) *common.AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrProductNotFound):
		return common.NewAppError("PRODUCT_NOT_FOUND", "product not found", http.StatusNotFound, err)
	case errors.Is(err, ErrCouponNotFound):
		return common.NewAppError("COUPON_NOT_FOUND", "coupon not found", http.StatusNotFound, err)
	case errors.Is(err, resilience.ErrOpenCircuit):
		return common.NewAppError("CATALOG_UNAVAILABLE", "catalog temporarily unavailable", http.StatusServiceUnavailable, err)
	default:
		return common.NewAppError("INTERNAL", "internal error", http.StatusInternalServerError, err)
	}
}
