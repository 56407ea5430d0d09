package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/resilience"
)

type flakyStore struct {
	*MemoryStore
	err   error
	calls int
}

func (f *flakyStore) FindProduct(ctx context.Context, id string) (Product, error) {
	f.calls++
	if f.err != nil {
		return Product{}, f.err
	}
	return f.MemoryStore.FindProduct(ctx, id)
}

func newGuardedForTest(t *testing.T, target string, next Store) *Guarded {
	t.Helper()
	breaker := resilience.NewBreaker(resilience.Config{
		Target:       target,
		MinRequests:  2,
		FailureRatio: 0.5,
		OpenFor:      time.Minute,
		IsSuccessful: IsExpectedError,
	}, zerolog.Nop())
	return NewGuarded(next, breaker)
}

func TestGuardedNotFoundKeepsCircuitClosed(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore()}
	guarded := newGuardedForTest(t, "guarded-notfound", store)

	for i := 0; i < 5; i++ {
		_, err := guarded.FindProduct(ctx, "missing")
		require.ErrorIs(t, err, ErrProductNotFound)
	}
	require.Equal(t, 5, store.calls)
}

func TestGuardedOpensOnBackendFailures(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{MemoryStore: NewMemoryStore(), err: errors.New("dial tcp: connection refused")}
	guarded := newGuardedForTest(t, "guarded-open", store)

	for i := 0; i < 2; i++ {
		_, err := guarded.FindProduct(ctx, "P001")
		require.Error(t, err)
	}
	_, err := guarded.FindProduct(ctx, "P001")
	require.ErrorIs(t, err, resilience.ErrOpenCircuit)
	require.Equal(t, 2, store.calls)

	appErr := AsAppError(err)
	require.Equal(t, "CATALOG_UNAVAILABLE", appErr.Code)
}

func TestGuardedPassesThroughReadsAndWrites(t *testing.T) {
	ctx := context.Background()
	guarded := newGuardedForTest(t, "guarded-pass", NewMemoryStore())
	require.NoError(t, SeedDefaults(ctx, guarded))

	coupon, err := guarded.FindCoupon(ctx, "SAVE500")
	require.NoError(t, err)
	require.Equal(t, Money(500), coupon.DiscountAmount)

	products, err := guarded.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)

	coupons, err := guarded.ListCoupons(ctx)
	require.NoError(t, err)
	require.Len(t, coupons, 4)
	require.NoError(t, guarded.Ping(ctx))
}
