package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// Pricer computes cart totals.
type Pricer interface {
	Price(ctx context.Context, req pricing.CartRequest) (pricing.Result, error)
}

// Handler exposes the cart endpoints.
type Handler struct {
	pricer  Pricer
	catalog catalog.Reader
	initial []pricing.LineItem
}

// HandlerConfig configures the Handler dependencies.
type HandlerConfig struct {
	Pricer  Pricer
	Catalog catalog.Reader
	// InitialItems pre-populates the cart view. Defaults to DefaultItems.
	InitialItems []pricing.LineItem
}

// DefaultItems is the cart shown to a new visitor.
func DefaultItems() []pricing.LineItem {
	return []pricing.LineItem{
		{ProductID: "P001", Quantity: 1},
		{ProductID: "P002", Quantity: 2},
	}
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	initial := cfg.InitialItems
	if initial == nil {
		initial = DefaultItems()
	}
	return &Handler{pricer: cfg.Pricer, catalog: cfg.Catalog, initial: initial}
}

type lineItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity" validate:"gte=0"`
}

type calculateRequest struct {
	Items       []lineItemInput `json:"items" validate:"required,dive"`
	CouponCodes []string        `json:"couponCodes"`
}

func (r calculateRequest) toCartRequest() pricing.CartRequest {
	items := make([]pricing.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, pricing.LineItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return pricing.CartRequest{Items: items, CouponCodes: r.CouponCodes}
}

// Calculate handles POST /api/v1/cart/calculate.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	if h.pricer == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing engine not configured", nil)
		return
	}
	var req calculateRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.pricer.Price(r.Context(), req.toCartRequest())
	if err != nil {
		common.WriteError(w, toAppError(err))
		return
	}
	common.Data(w, http.StatusOK, result)
}

type viewItem struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	UnitPrice pricing.Money `json:"unitPrice"`
	Quantity  int64         `json:"quantity"`
	Subtotal  pricing.Money `json:"subtotal"`
}

type cartView struct {
	Products []catalog.Product `json:"products"`
	Coupons  []catalog.Coupon  `json:"coupons"`
	Items    []viewItem        `json:"items"`
}

// View handles GET /api/v1/cart, returning the catalog and the initial cart contents.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	ctx := r.Context()
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		common.WriteError(w, catalog.AsAppError(err))
		return
	}
	coupons, err := h.catalog.ListCoupons(ctx)
	if err != nil {
		common.WriteError(w, catalog.AsAppError(err))
		return
	}
	byID := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	items := make([]viewItem, 0, len(h.initial))
	for _, it := range h.initial {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		items = append(items, viewItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  p.UnitPrice * it.Quantity,
		})
	}
	common.Data(w, http.StatusOK, cartView{Products: products, Coupons: coupons, Items: items})
}

func toAppError(err error) *common.AppError {
	var capErr *pricing.CapError
	switch {
	case errors.As(err, &capErr):
		return &common.AppError{
			Code:       "DISCOUNT_CAP_REACHED",
			Message:    pricing.ErrDiscountCapReached.Error(),
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
			Details: map[string]any{
				"policy":            capErr.Policy,
				"couponCode":        capErr.CouponCode,
				"originalTotal":     capErr.OriginalTotal,
				"attemptedDiscount": capErr.AttemptedDiscount,
			},
		}
	case errors.Is(err, pricing.ErrAmountOverflow):
		return common.NewAppError("AMOUNT_OVERFLOW", "cart total is out of range", http.StatusUnprocessableEntity, err)
	default:
		return catalog.AsAppError(err)
	}
}
