package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/catalog"
)

type productsResponse struct {
	Data []catalog.Product `json:"data"`
}

type productResponse struct {
	Data catalog.Product `json:"data"`
}

type couponsResponse struct {
	Data []catalog.Coupon `json:"data"`
}

type couponResponse struct {
	Data catalog.Coupon `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newCatalogRouter(t *testing.T) http.Handler {
	t.Helper()
	store := catalog.NewMemoryStore()
	require.NoError(t, catalog.SeedDefaults(context.Background(), store))
	svc, err := catalog.NewService(catalog.ServiceConfig{Reader: store})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	r := chi.NewRouter()
	r.Get("/api/v1/products", handler.Products)
	r.Get("/api/v1/products/{id}", handler.Product)
	r.Get("/api/v1/coupons", handler.Coupons)
	r.Get("/api/v1/coupons/{code}", handler.Coupon)
	return r
}

func TestCatalogHandlers(t *testing.T) {
	router := newCatalogRouter(t)

	t.Run("list products", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body productsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 4)
		require.Equal(t, "P001", body.Data[0].ID)
	})

	t.Run("product detail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/P004", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body productResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, catalog.Money(12000), body.Data.UnitPrice)
	})

	t.Run("unknown product", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products/P999", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, "PRODUCT_NOT_FOUND", body.Error.Code)
	})

	t.Run("list coupons", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/coupons", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body couponsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body.Data, 4)
	})

	t.Run("coupon detail", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/coupons/BONUS200", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var body couponResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, catalog.Money(200), body.Data.DiscountAmount)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/coupons/FREE", nil))
		require.Equal(t, http.StatusNotFound, rr.Code)
		var body errorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Equal(t, "COUPON_NOT_FOUND", body.Error.Code)
	})
}

func TestCatalogHandlerWithoutService(t *testing.T) {
	handler := catalog.NewHandler(catalog.HandlerConfig{})
	rr := httptest.NewRecorder()
	handler.Products(rr, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
