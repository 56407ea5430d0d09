package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/lock"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/resilience"
)

const (
	maxConnectAttempts = 5
	seedLockKey        = "catalog:seed:lock"
)

func main() {
	backendFlag := flag.String("backend", "", "catalog backend to seed (redis|postgres); defaults to CATALOG_BACKEND")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel).With().Str("tool", "seeder").Logger()

	backend := cfg.CatalogBackend
	if *backendFlag != "" {
		backend = *backendFlag
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := run(ctx, cfg, backend, logger); err != nil {
		logger.Fatal().Err(err).Str("backend", backend).Msg("seed catalog")
	}
	logger.Info().
		Str("backend", backend).
		Int("products", len(catalog.DefaultProducts())).
		Int("coupons", len(catalog.DefaultCoupons())).
		Msg("catalog seeded")
}

func run(ctx context.Context, cfg *config.Config, backend string, logger zerolog.Logger) error {
	switch backend {
	case config.BackendRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()
		store := catalog.NewRedisStore(client, "catalog:")
		if err := waitFor(ctx, store, logger); err != nil {
			return err
		}
		cache := catalog.NewCache(client, cfg.CatalogCacheTTL)
		locker := lock.Locker{Client: client}
		return locker.WithLock(ctx, seedLockKey, 30*time.Second, func(ctx context.Context) error {
			return catalog.Reseed(ctx, store, cache)
		})
	case config.BackendPostgres:
		if cfg.DatabaseMigrate {
			if err := catalog.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer pool.Close()
		store := catalog.NewPostgresStore(pool)
		if err := waitFor(ctx, store, logger); err != nil {
			return err
		}
		cache, closeCache, err := listingCache(cfg)
		if err != nil {
			return err
		}
		defer closeCache()
		return catalog.Reseed(ctx, store, cache)
	default:
		return fmt.Errorf("backend %q has nothing to seed", backend)
	}
}

// listingCache connects to the API's listing cache when REDIS_URL is set so a
// Postgres reseed is not masked by cached listings.
func listingCache(cfg *config.Config) (*catalog.Cache, func(), error) {
	if cfg.RedisURL == "" {
		return nil, func() {}, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	return catalog.NewCache(client, cfg.CatalogCacheTTL), func() { _ = client.Close() }, nil
}

// waitFor pings store with exponential backoff until it answers or attempts run out.
func waitFor(ctx context.Context, store catalog.Store, logger zerolog.Logger) error {
	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		if lastErr = store.Ping(ctx); lastErr == nil {
			return nil
		}
		delay := resilience.Backoff(200*time.Millisecond, attempt, 0.2)
		logger.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", delay).Msg("catalog backend not ready")
		select {
		case <-ctx.Done():
			return errors.Join(lastErr, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("catalog backend unreachable after %d attempts: %w", maxConnectAttempts, lastErr)
}
