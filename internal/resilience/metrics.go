package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsSubsystem = "breaker"

// Breaker collectors are labelled by target, e.g. "catalog_redis".
var (
	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "toko",
		Subsystem: metricsSubsystem,
		Name:      "state",
		Help:      "Current breaker state per target: 0=closed, 1=open, 2=half-open.",
	}, []string{"target"})
	BreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toko",
		Subsystem: metricsSubsystem,
		Name:      "transitions_total",
		Help:      "Breaker state transitions per target.",
	}, []string{"target", "from", "to"})
	BreakerOpenedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "toko",
		Subsystem: metricsSubsystem,
		Name:      "opened_total",
		Help:      "Times a breaker tripped into the open state.",
	}, []string{"target"})
)
