package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// PricingCalculationsTotal counts cart pricing outcomes per coupon policy.
	PricingCalculationsTotal *prometheus.CounterVec
	// PricingCouponsSkippedTotal counts coupon codes ignored during resolution.
	PricingCouponsSkippedTotal *prometheus.CounterVec
	// PricingLineItemsSkippedTotal counts line items referencing unknown products.
	PricingLineItemsSkippedTotal prometheus.Counter
	// PricingDiscountAmount records the discount granted per successful calculation, in minor units.
	PricingDiscountAmount *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		PricingCalculationsTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_calculations_total",
			Help:      "Count of cart pricing calculations by policy and outcome.",
		}, []string{"policy", "result"}))
		PricingCouponsSkippedTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_coupons_skipped_total",
			Help:      "Count of coupon codes skipped during resolution by reason.",
		}, []string{"reason"}))
		PricingLineItemsSkippedTotal = registerOrReuse(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_line_items_skipped_total",
			Help:      "Count of line items skipped because the product is unknown.",
		}))
		PricingDiscountAmount = registerOrReuse(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pricing_discount_amount",
			Help:      "Total discount granted per calculation in minor currency units.",
			Buckets:   []float64{0, 100, 250, 500, 1000, 2500, 5000, 10000, 50000},
		}, []string{"policy"}))
	})
}
