package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	redisProductsKey = "products"
	redisCouponsKey  = "coupons"
)

// RedisStore keeps products and coupons as JSON values inside two Redis hashes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a Redis-backed catalog. The prefix namespaces the hash keys.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "catalog:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// SaveProduct writes the product into the products hash.
func (s *RedisStore) SaveProduct(ctx context.Context, p Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	if err := s.client.HSet(ctx, s.prefix+redisProductsKey, p.ID, data).Err(); err != nil {
		return fmt.Errorf("redis save product: %w", err)
	}
	return nil
}

// SaveCoupon writes the coupon into the coupons hash.
func (s *RedisStore) SaveCoupon(ctx context.Context, c Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal coupon: %w", err)
	}
	if err := s.client.HSet(ctx, s.prefix+redisCouponsKey, c.Code, data).Err(); err != nil {
		return fmt.Errorf("redis save coupon: %w", err)
	}
	return nil
}

// FindProduct loads a single product.
func (s *RedisStore) FindProduct(ctx context.Context, id string) (Product, error) {
	data, err := s.client.HGet(ctx, s.prefix+redisProductsKey, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("redis get product: %w", err)
	}
	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return Product{}, fmt.Errorf("unmarshal product: %w", err)
	}
	return p, nil
}

// FindCoupon loads a single coupon.
func (s *RedisStore) FindCoupon(ctx context.Context, code string) (Coupon, error) {
	data, err := s.client.HGet(ctx, s.prefix+redisCouponsKey, code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Coupon{}, ErrCouponNotFound
		}
		return Coupon{}, fmt.Errorf("redis get coupon: %w", err)
	}
	var c Coupon
	if err := json.Unmarshal(data, &c); err != nil {
		return Coupon{}, fmt.Errorf("unmarshal coupon: %w", err)
	}
	return c, nil
}

// ListProducts returns all products ordered by id.
func (s *RedisStore) ListProducts(ctx context.Context) ([]Product, error) {
	values, err := s.client.HGetAll(ctx, s.prefix+redisProductsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list products: %w", err)
	}
	out := make([]Product, 0, len(values))
	for id, raw := range values {
		var p Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("unmarshal product %s: %w", id, err)
		}
		out = append(out, p)
	}
	sortProducts(out)
	return out, nil
}

// ListCoupons returns all coupons ordered by code.
func (s *RedisStore) ListCoupons(ctx context.Context) ([]Coupon, error) {
	values, err := s.client.HGetAll(ctx, s.prefix+redisCouponsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list coupons: %w", err)
	}
	out := make([]Coupon, 0, len(values))
	for code, raw := range values {
		var c Coupon
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("unmarshal coupon %s: %w", code, err)
		}
		out = append(out, c)
	}
	sortCoupons(out)
	return out, nil
}

// Ping checks Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
