package resilience

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// ErrOpenCircuit is returned when the circuit breaker refuses a request.
var ErrOpenCircuit = errors.New("resilience: circuit breaker open")

// Config controls when a breaker trips and how long it stays open.
type Config struct {
	Target       string
	MinRequests  uint32
	FailureRatio float64
	OpenFor      time.Duration
	// Interval clears closed-state counters periodically; zero keeps them until a transition.
	Interval time.Duration
	// IsSuccessful classifies errors that should not count as dependency failures.
	IsSuccessful func(error) bool
}

// Breaker guards calls to a remote dependency with a failure-ratio circuit breaker.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[any]
	target string
	logger zerolog.Logger
}

// NewBreaker constructs a breaker that opens when the failure ratio exceeds
// the configured threshold once MinRequests calls have been observed.
func NewBreaker(cfg Config, logger zerolog.Logger) *Breaker {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 1
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 {
		ratio = 0.5
	}
	if ratio > 1 {
		ratio = 1
	}
	openFor := cfg.OpenFor
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	target := strings.TrimSpace(cfg.Target)
	if target == "" {
		target = "default"
	}
	b := &Breaker{target: target, logger: logger}
	settings := gobreaker.Settings{
		Name:        target,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			b.recordTransition(from, to)
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return cfg.IsSuccessful != nil && cfg.IsSuccessful(err)
		},
	}
	b.cb = gobreaker.NewCircuitBreaker[any](settings)
	if BreakerState != nil {
		BreakerState.WithLabelValues(target).Set(stateGaugeValue(gobreaker.StateClosed))
	}
	return b
}

// Target returns the dependency label used for metrics and logs.
func (b *Breaker) Target() string { return b.target }

// State returns the current breaker state label: closed, open or half_open.
func (b *Breaker) State() string { return stateLabel(b.cb.State()) }

// Call runs fn through the breaker. A nil breaker calls fn directly.
func Call[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %s", ErrOpenCircuit, b.target)
		}
		return zero, err
	}
	value, _ := out.(T)
	return value, nil
}

// Backoff returns an exponential backoff duration for the provided attempt.
// Jitter is expressed as a fraction (e.g. 0.2 == 20%).
func Backoff(base time.Duration, attempt int, jitterPct float64) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base * time.Duration(1<<uint(attempt-1))
	if jitterPct <= 0 {
		return d
	}
	jitter := float64(d) * jitterPct
	delta := (rand.Float64()*2 - 1) * jitter
	return d + time.Duration(delta)
}

func (b *Breaker) recordTransition(from, to gobreaker.State) {
	if BreakerState != nil {
		BreakerState.WithLabelValues(b.target).Set(stateGaugeValue(to))
	}
	if BreakerTransitions != nil {
		BreakerTransitions.WithLabelValues(b.target, stateLabel(from), stateLabel(to)).Inc()
	}
	if to == gobreaker.StateOpen && BreakerOpenedTotal != nil {
		BreakerOpenedTotal.WithLabelValues(b.target).Inc()
	}
	b.logger.Warn().
		Str("target", b.target).
		Str("from_state", stateLabel(from)).
		Str("to_state", stateLabel(to)).
		Msg("breaker_transition")
}

func stateLabel(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

func stateGaugeValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return -1
	}
}
