package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

// Ensure BreakerService implements the interface.
var _ driven.AIService = (*BreakerService)(nil)

// BreakerSettings configures the AI circuit breaker.
type BreakerSettings struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial call.
	OpenTimeout time.Duration
	// HalfOpenRequests is how many trial calls are allowed while half-open.
	HalfOpenRequests uint32
}

// DefaultBreakerSettings returns the default breaker settings.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// BreakerService wraps an AIService so that a failing model is skipped
// outright while the breaker is open. Callers see ErrAIUnavailable and take
// their fallback path without waiting for a timeout.
type BreakerService struct {
	next driven.AIService
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerService wraps next with a circuit breaker.
func NewBreakerService(next driven.AIService, s BreakerSettings) *BreakerService {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ai",
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		// A caller that went away says nothing about the model.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.AIBreakerState.Set(stateValue(to))
			logger.With(zap.String("breaker", name), zap.String("from", from.String()),
				zap.String("to", to.String())).Warn("AI circuit breaker state changed")
		},
	})
	metrics.AIBreakerState.Set(stateValue(gobreaker.StateClosed))
	return &BreakerService{next: next, cb: cb}
}

// State returns the breaker state name.
func (b *BreakerService) State() string {
	return b.cb.State().String()
}

// ProcessQuery implements driven.AIService.
func (b *BreakerService) ProcessQuery(
	ctx context.Context, query string, qctx domain.QueryContext,
) (*domain.ProcessedQuery, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.ProcessQuery(ctx, query, qctx)
	})
	if err != nil {
		return nil, wrapOpen(err)
	}
	return out.(*domain.ProcessedQuery), nil
}

// RankResults implements driven.AIService.
func (b *BreakerService) RankResults(
	ctx context.Context, query string, candidates []domain.NormalizedResult, intent *domain.Intent,
) (map[string]float64, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.RankResults(ctx, query, candidates, intent)
	})
	if err != nil {
		return nil, wrapOpen(err)
	}
	return out.(map[string]float64), nil
}

func wrapOpen(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrAIUnavailable, err)
	}
	return err
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
