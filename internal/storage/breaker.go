package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"

	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// BreakerConfig holds configuration for the blob store circuit breaker.
type BreakerConfig struct {
	// Name identifies this breaker (used in metrics and logs).
	Name string

	// MaxRequests is the maximum number of requests allowed in the half-open state.
	// 0 means 1 request is allowed.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state for clearing internal counts.
	// 0 means internal counts are never cleared during the closed state.
	Interval time.Duration

	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration

	// FailureRatio is the ratio of failures to total requests that trips the breaker.
	// For example, 0.5 means trip when 50% of requests fail.
	FailureRatio float64

	// MinRequests is the minimum number of requests needed before the failure ratio is evaluated.
	MinRequests uint32
}

// DefaultBreakerConfig returns sensible defaults for the blob store breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

var circuitBreakerState = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"name"},
)

func init() {
	prometheus.MustRegister(circuitBreakerState)
}

// stateToFloat maps gobreaker states to prometheus gauge values.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// ErrCircuitOpen is returned by gobreaker when the breaker rejects a call.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerStore wraps a BlobStore with circuit breaker protection. A
// rejected call surfaces as StoreUnavailable so callers and the HTTP layer
// treat an open breaker exactly like an unreachable store.
type CircuitBreakerStore struct {
	inner   BlobStore
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	name    string
}

// NewCircuitBreakerStore wraps an existing blob store with a circuit breaker.
func NewCircuitBreakerStore(inner BlobStore, cfg BreakerConfig, logger *slog.Logger) *CircuitBreakerStore {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// Client mistakes (bad folder, oversized file) say nothing
			// about store health.
			return err == nil || errors.Is(err, apperrors.ErrInvalidInput)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			circuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	cb := gobreaker.NewCircuitBreaker[any](settings)

	// Set initial state metric.
	circuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	return &CircuitBreakerStore{
		inner:   inner,
		breaker: cb,
		logger:  logger,
		name:    cfg.Name,
	}
}

// Upload stores a blob through the circuit breaker.
func (s *CircuitBreakerStore) Upload(ctx context.Context, input *UploadInput) (*UploadResult, error) {
	res, err := s.breaker.Execute(func() (any, error) {
		return s.inner.Upload(ctx, input)
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	return res.(*UploadResult), nil
}

// Delete removes a blob through the circuit breaker.
func (s *CircuitBreakerStore) Delete(ctx context.Context, url string) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Delete(ctx, url)
	})
	return s.mapErr(err)
}

// Ping probes the store through the circuit breaker, so readiness reflects
// an open breaker and successful probes help it close again.
func (s *CircuitBreakerStore) Ping(ctx context.Context) error {
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.inner.Ping(ctx)
	})
	return s.mapErr(err)
}

// State returns the current state of the circuit breaker.
func (s *CircuitBreakerStore) State() gobreaker.State {
	return s.breaker.State()
}

func (s *CircuitBreakerStore) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperrors.Unavailable(err)
	}
	return err
}
