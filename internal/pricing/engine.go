package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/toko-pricing/internal/catalog"
	"github.com/noah-isme/toko-pricing/internal/obs"
)

// Money represents a monetary value stored in minor units.
type Money = catalog.Money

// Policy selects how candidate coupons are combined into a discount.
type Policy string

const (
	// PolicyBestSingle applies only the coupon with the largest discount.
	PolicyBestSingle Policy = "best_single"
	// PolicyCumulative applies coupons in order while the running discount stays within the total.
	PolicyCumulative Policy = "cumulative"
)

// ParsePolicy converts a configuration value into a Policy. Blank selects PolicyBestSingle.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyBestSingle:
		return PolicyBestSingle, nil
	case PolicyCumulative:
		return PolicyCumulative, nil
	default:
		return "", fmt.Errorf("unknown pricing policy %q", value)
	}
}

// LineItem is a product quantity pair in a cart request.
type LineItem struct {
	ProductID string
	Quantity  int64
}

// CartRequest is the input to a single calculation. CouponCodes order drives
// tie-breaking and which coupon is reported on a cap failure.
type CartRequest struct {
	Items       []LineItem
	CouponCodes []string
}

// Result is the outcome of a successful calculation.
type Result struct {
	OriginalTotal       Money            `json:"originalTotal"`
	DiscountedTotal     Money            `json:"discountedTotal"`
	TotalDiscountAmount Money            `json:"totalDiscountAmount"`
	AppliedCoupons      []catalog.Coupon `json:"appliedCoupons"`
}

// Engine prices carts against a catalog using one coupon policy. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	catalog catalog.Reader
	policy  Policy
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// Option customises an Engine.
type Option func(*Engine)

// WithPolicy sets the coupon policy. Unknown values fall back to PolicyBestSingle.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		if p == PolicyCumulative {
			e.policy = PolicyCumulative
			return
		}
		e.policy = PolicyBestSingle
	}
}

// WithLogger sets the logger used for skip warnings and calculation summaries.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New constructs an Engine reading prices and coupons from reader.
func New(reader catalog.Reader, opts ...Option) *Engine {
	e := &Engine{
		catalog: reader,
		policy:  PolicyBestSingle,
		logger:  zerolog.Nop(),
		tracer:  otel.Tracer("github.com/noah-isme/toko-pricing/internal/pricing"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy reports the coupon policy the engine was built with.
func (e *Engine) Policy() Policy { return e.policy }

// Price computes totals for req. The only domain error is *CapError; any other
// error comes from the catalog backend and no partial result is returned.
func (e *Engine) Price(ctx context.Context, req CartRequest) (Result, error) {
	ctx, span := e.tracer.Start(ctx, "pricing.Price", trace.WithAttributes(
		attribute.String("pricing.policy", string(e.policy)),
		attribute.Int("pricing.items", len(req.Items)),
		attribute.Int("pricing.coupon_codes", len(req.CouponCodes)),
	))
	defer span.End()

	logger := e.logger.With().Str("policy", string(e.policy)).Logger()
	if sc := span.SpanContext(); sc.IsValid() {
		logger = logger.With().Str("trace_id", sc.TraceID().String()).Logger()
	}

	res, err := e.price(ctx, logger, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.observe(resultLabel(err), 0)
		var capErr *CapError
		if errors.As(err, &capErr) {
			logger.Info().
				Str("coupon", capErr.CouponCode).
				Int64("original_total", capErr.OriginalTotal).
				Int64("attempted_discount", capErr.AttemptedDiscount).
				Msg("pricing rejected: discount cap reached")
		} else {
			logger.Error().Err(err).Msg("pricing failed")
		}
		return Result{}, err
	}

	span.SetAttributes(
		attribute.Int64("pricing.original_total", res.OriginalTotal),
		attribute.Int64("pricing.discount", res.TotalDiscountAmount),
	)
	e.observe("ok", res.TotalDiscountAmount)
	logger.Info().
		Int64("original_total", res.OriginalTotal).
		Int64("discounted_total", res.DiscountedTotal).
		Int64("total_discount", res.TotalDiscountAmount).
		Int("applied_coupons", len(res.AppliedCoupons)).
		Msg("pricing calculated")
	return res, nil
}

func (e *Engine) price(ctx context.Context, logger zerolog.Logger, req CartRequest) (Result, error) {
	original, err := e.rawTotal(ctx, logger, req.Items)
	if err != nil {
		return Result{}, err
	}

	var applied []catalog.Coupon
	switch e.policy {
	case PolicyCumulative:
		applied, err = e.resolveCumulative(ctx, logger, req.CouponCodes, original)
	default:
		applied, err = e.resolveBestSingle(ctx, logger, req.CouponCodes, original)
	}
	if err != nil {
		return Result{}, err
	}

	var discount Money
	for _, c := range applied {
		discount += c.DiscountAmount
	}
	discounted := original - discount
	if discounted < 0 {
		discounted = 0
	}
	return Result{
		OriginalTotal:       original,
		DiscountedTotal:     discounted,
		TotalDiscountAmount: discount,
		AppliedCoupons:      applied,
	}, nil
}

func (e *Engine) rawTotal(ctx context.Context, logger zerolog.Logger, items []LineItem) (Money, error) {
	var total Money
	for _, item := range items {
		product, err := e.catalog.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, catalog.ErrProductNotFound) {
				logger.Warn().Str("product_id", item.ProductID).Msg("product not found; line item excluded")
				if obs.PricingLineItemsSkippedTotal != nil {
					obs.PricingLineItemsSkippedTotal.Inc()
				}
				continue
			}
			return 0, fmt.Errorf("lookup product %s: %w", item.ProductID, err)
		}
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		line, ok := mulMoney(product.UnitPrice, qty)
		if !ok {
			return 0, fmt.Errorf("line %s: %w", item.ProductID, ErrAmountOverflow)
		}
		total, ok = addMoney(total, line)
		if !ok {
			return 0, fmt.Errorf("cart total: %w", ErrAmountOverflow)
		}
	}
	return total, nil
}

// resolveCoupon looks up code and reports whether it is usable. Blank and
// unknown codes are skipped; other catalog errors abort the calculation.
func (e *Engine) resolveCoupon(ctx context.Context, logger zerolog.Logger, code string) (catalog.Coupon, bool, error) {
	if strings.TrimSpace(code) == "" {
		logger.Warn().Msg("blank coupon code ignored")
		skipCoupon("blank")
		return catalog.Coupon{}, false, nil
	}
	coupon, err := e.catalog.FindCoupon(ctx, code)
	if err != nil {
		if errors.Is(err, catalog.ErrCouponNotFound) {
			logger.Warn().Str("coupon", code).Msg("coupon not found; ignored")
			skipCoupon("unknown")
			return catalog.Coupon{}, false, nil
		}
		return catalog.Coupon{}, false, fmt.Errorf("lookup coupon %s: %w", code, err)
	}
	return coupon, true, nil
}

func (e *Engine) resolveBestSingle(ctx context.Context, logger zerolog.Logger, codes []string, original Money) ([]catalog.Coupon, error) {
	var (
		best  catalog.Coupon
		found bool
	)
	for _, code := range codes {
		coupon, ok, err := e.resolveCoupon(ctx, logger, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		logger.Debug().Str("coupon", coupon.Code).Int64("discount", coupon.DiscountAmount).Msg("coupon candidate")
		if !found || coupon.DiscountAmount > best.DiscountAmount {
			best = coupon
			found = true
		}
	}
	if !found {
		return []catalog.Coupon{}, nil
	}
	if best.DiscountAmount > original {
		return nil, &CapError{
			Err:               ErrExcessiveDiscount,
			Policy:            PolicyBestSingle,
			CouponCode:        best.Code,
			OriginalTotal:     original,
			AttemptedDiscount: best.DiscountAmount,
		}
	}
	return []catalog.Coupon{best}, nil
}

func (e *Engine) resolveCumulative(ctx context.Context, logger zerolog.Logger, codes []string, original Money) ([]catalog.Coupon, error) {
	applied := make([]catalog.Coupon, 0, len(codes))
	var running Money
	for _, code := range codes {
		coupon, ok, err := e.resolveCoupon(ctx, logger, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		next, ok := addMoney(running, coupon.DiscountAmount)
		if !ok {
			next = math.MaxInt64
		}
		if next > original {
			return nil, &CapError{
				Err:               ErrTotalDiscountExceeded,
				Policy:            PolicyCumulative,
				CouponCode:        coupon.Code,
				OriginalTotal:     original,
				AttemptedDiscount: next,
			}
		}
		running = next
		applied = append(applied, coupon)
	}
	return applied, nil
}

func (e *Engine) observe(result string, discount Money) {
	if obs.PricingCalculationsTotal != nil {
		obs.PricingCalculationsTotal.WithLabelValues(string(e.policy), result).Inc()
	}
	if result == "ok" && obs.PricingDiscountAmount != nil {
		obs.PricingDiscountAmount.WithLabelValues(string(e.policy)).Observe(float64(discount))
	}
}

func skipCoupon(reason string) {
	if obs.PricingCouponsSkippedTotal != nil {
		obs.PricingCouponsSkippedTotal.WithLabelValues(reason).Inc()
	}
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrDiscountCapReached):
		return "cap_reached"
	case errors.Is(err, ErrAmountOverflow):
		return "overflow"
	default:
		return "error"
	}
}

func mulMoney(a Money, qty int64) (Money, bool) {
	if a == 0 || qty == 0 {
		return 0, true
	}
	if a > math.MaxInt64/qty {
		return 0, false
	}
	return a * qty, true
}

func addMoney(a, b Money) (Money, bool) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
