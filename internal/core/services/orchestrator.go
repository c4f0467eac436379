package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
	"github.com/custodia-labs/sercha-federated/internal/settle"
)

// OrchestratorOptions bounds a fan-out.
type OrchestratorOptions struct {
	// AdapterTimeout bounds each provider call.
	AdapterTimeout time.Duration
	// OverallDeadline bounds the whole fan-out.
	OverallDeadline time.Duration
	// MaxConcurrency caps simultaneous provider calls. Zero means unbounded.
	MaxConcurrency int
}

// ExecutionResult is the partitioned outcome of one fan-out.
// Results carry no cross-provider ordering guarantee.
type ExecutionResult struct {
	Results  []domain.ProviderResults
	Failures []domain.ProviderFailure
}

// Orchestrator fans a query out to every adapter and tracks provider health.
type Orchestrator struct {
	health *HealthTracker

	mu   sync.RWMutex
	opts OrchestratorOptions
}

// NewOrchestrator creates an orchestrator that owns the given health tracker.
func NewOrchestrator(health *HealthTracker, opts OrchestratorOptions) *Orchestrator {
	return &Orchestrator{health: health, opts: opts}
}

// Health returns the tracker backing this orchestrator.
func (o *Orchestrator) Health() *HealthTracker {
	return o.health
}

// SetOptions replaces the fan-out bounds for subsequent requests.
func (o *Orchestrator) SetOptions(opts OrchestratorOptions) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opts = opts
}

// Options returns the current fan-out bounds.
func (o *Orchestrator) Options() OrchestratorOptions {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.opts
}

// ExecuteAll runs query against every adapter concurrently and waits for all
// of them to settle. A provider failure is recorded in its health state and
// in Failures; it never fails the batch. Providers still pending at the
// overall deadline are reported as timeouts.
func (o *Orchestrator) ExecuteAll(ctx context.Context, adapters AdapterSet, query, requestID string) ExecutionResult {
	logger.Section("Fan-out")
	opts := o.Options()
	log := logger.With(zap.String("request_id", requestID))

	var result ExecutionResult
	providers := make([]domain.ProviderID, 0, len(adapters))
	tasks := make([]settle.Task[[]domain.RawResult], 0, len(adapters))

	for _, p := range sortedProviders(adapters) {
		if o.health.ShouldSkip(p) {
			metrics.ProviderRequests.WithLabelValues(string(p), metrics.OutcomeSkipped).Inc()
			log.Warn("skipping unhealthy provider", zap.String("provider", string(p)))
			result.Failures = append(result.Failures, domain.ProviderFailure{
				Provider: p,
				Class:    domain.ClassUnhealthy,
				Message:  domain.ErrProviderUnhealthy.Error(),
			})
			continue
		}

		adapter := adapters[p]
		providers = append(providers, p)
		tasks = append(tasks, settle.Task[[]domain.RawResult]{
			Name: string(p),
			Run: func(ctx context.Context) ([]domain.RawResult, error) {
				return adapter.Search(ctx, query)
			},
		})
	}

	outcomes := settle.All(ctx, tasks, settle.Options{
		TaskTimeout:    opts.AdapterTimeout,
		Deadline:       opts.OverallDeadline,
		MaxConcurrency: opts.MaxConcurrency,
	})

	// A caller that went away is not the provider's fault.
	callerCancelled := errors.Is(ctx.Err(), context.Canceled)

	for i, out := range outcomes {
		p := providers[i]
		metrics.ProviderLatency.WithLabelValues(string(p)).Observe(out.Duration.Seconds())

		if out.Status == settle.Succeeded {
			o.health.RecordSuccess(p)
			metrics.ProviderRequests.WithLabelValues(string(p), metrics.OutcomeSuccess).Inc()
			result.Results = append(result.Results, domain.ProviderResults{
				Provider: p,
				Results:  tagProvider(p, out.Value),
				Duration: out.Duration,
			})
			log.Debug("provider succeeded",
				zap.String("provider", string(p)),
				zap.Int("results", len(out.Value)),
				zap.Duration("duration", out.Duration))
			continue
		}

		failure := domain.ProviderFailure{
			Provider: p,
			Class:    domain.ClassifyProviderError(out.Err),
			Message:  errorMessage(out.Err),
			TimedOut: out.Status == settle.TimedOut,
		}
		if failure.TimedOut {
			failure.Class = domain.ClassTimeout
			metrics.ProviderRequests.WithLabelValues(string(p), metrics.OutcomeTimeout).Inc()
		} else {
			metrics.ProviderRequests.WithLabelValues(string(p), metrics.OutcomeFailure).Inc()
		}
		if !callerCancelled {
			o.health.RecordFailure(p, out.Err)
		}
		result.Failures = append(result.Failures, failure)

		log.Warn("provider search failed",
			zap.String("provider", string(p)),
			zap.String("op", "search"),
			zap.String("class", string(failure.Class)),
			zap.Bool("timed_out", failure.TimedOut),
			zap.Duration("duration", out.Duration),
			zap.Error(out.Err))
	}

	logger.Debug("Fan-out settled: %d succeeded, %d failed", len(result.Results), len(result.Failures))
	return result
}

func sortedProviders(adapters AdapterSet) []domain.ProviderID {
	ids := make([]domain.ProviderID, 0, len(adapters))
	for p := range adapters {
		ids = append(ids, p)
	}
	return domain.SortProviders(ids)
}

func tagProvider(p domain.ProviderID, results []domain.RawResult) []domain.RawResult {
	for i := range results {
		results[i].Provider = p
	}
	return results
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
