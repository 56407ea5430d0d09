package catalog

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-pricing/internal/common"
)

// Handler exposes public catalog endpoints.
type Handler struct {
	service *Service
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Service *Service
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{service: cfg.Service}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	rows, err := h.service.ListProducts(r.Context())
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.Data(w, http.StatusOK, rows)
}

// Product handles GET /api/v1/products/{id}.
func (h *Handler) Product(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	product, err := h.service.FindProduct(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.Data(w, http.StatusOK, product)
}

// Coupons handles GET /api/v1/coupons.
func (h *Handler) Coupons(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	rows, err := h.service.ListCoupons(r.Context())
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.Data(w, http.StatusOK, rows)
}

// Coupon handles GET /api/v1/coupons/{code}.
func (h *Handler) Coupon(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog service not configured", nil)
		return
	}
	coupon, err := h.service.FindCoupon(r.Context(), strings.TrimSpace(chi.URLParam(r, "code")))
	if err != nil {
		common.WriteError(w, AsAppError(err))
		return
	}
	common.Data(w, http.StatusOK, coupon)
}
