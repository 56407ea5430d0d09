package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeedAndLookup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, SeedDefaults(ctx, store))

	p, err := store.FindProduct(ctx, "P001")
	require.NoError(t, err)
	require.Equal(t, Money(30000), p.UnitPrice)

	c, err := store.FindCoupon(ctx, "BIGSAVE")
	require.NoError(t, err)
	require.Equal(t, Money(1000), c.DiscountAmount)

	_, err = store.FindProduct(ctx, "P999")
	require.ErrorIs(t, err, ErrProductNotFound)
	_, err = store.FindCoupon(ctx, "save100")
	require.ErrorIs(t, err, ErrCouponNotFound)
}

func TestMemoryStoreListsSorted(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, SeedDefaults(ctx, store))

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 4)
	require.Equal(t, []string{"P001", "P002", "P003", "P004"}, []string{products[0].ID, products[1].ID, products[2].ID, products[3].ID})

	coupons, err := store.ListCoupons(ctx)
	require.NoError(t, err)
	require.Equal(t, "BIGSAVE", coupons[0].Code)
	require.Equal(t, "SAVE500", coupons[3].Code)
}

func TestMemoryStoreRejectsInvalidEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.ErrorIs(t, store.SaveProduct(ctx, Product{ID: "", UnitPrice: 10}), ErrInvalidEntry)
	require.ErrorIs(t, store.SaveProduct(ctx, Product{ID: "X", UnitPrice: -1}), ErrInvalidEntry)
	require.ErrorIs(t, store.SaveCoupon(ctx, Coupon{Code: "C", DiscountAmount: -5}), ErrInvalidEntry)

	err := Seed(ctx, store, []Product{{ID: "", UnitPrice: 1}}, nil)
	require.ErrorIs(t, err, ErrInvalidEntry)
}

func TestMemoryStoreConcurrentReads(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, SeedDefaults(ctx, store))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = store.FindProduct(ctx, "P002")
				_, _ = store.ListCoupons(ctx)
			}
		}()
	}
	wg.Wait()
}

func TestCouponEqualByCode(t *testing.T) {
	a := Coupon{Code: "SAVE100", Description: "a", DiscountAmount: 100}
	b := Coupon{Code: "SAVE100", Description: "b", DiscountAmount: 999}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(Coupon{Code: "SAVE500"}))
}
