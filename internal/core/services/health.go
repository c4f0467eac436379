package services

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

// Ensure HealthTracker implements the interface.
var _ driving.HealthService = (*HealthTracker)(nil)

// HealthTracker holds the rolling health state of every provider.
//
// State lives for the process lifetime. Each record call updates one
// provider's entry under the write lock; readers get copies.
type HealthTracker struct {
	mu         sync.RWMutex
	states     map[domain.ProviderID]domain.IntegrationHealth
	thresholds domain.HealthThresholds
	now        func() time.Time
}

// NewHealthTracker creates a tracker with the given thresholds.
func NewHealthTracker(thresholds domain.HealthThresholds) *HealthTracker {
	return &HealthTracker{
		states:     make(map[domain.ProviderID]domain.IntegrationHealth),
		thresholds: thresholds,
		now:        time.Now,
	}
}

// SetThresholds replaces the thresholds. Existing counters are kept.
func (h *HealthTracker) SetThresholds(t domain.HealthThresholds) error {
	if err := t.Validate(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.thresholds = t
	return nil
}

// Thresholds returns the current thresholds.
func (h *HealthTracker) Thresholds() domain.HealthThresholds {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.thresholds
}

func (h *HealthTracker) entry(p domain.ProviderID, now time.Time) domain.IntegrationHealth {
	s, ok := h.states[p]
	if !ok {
		s = domain.NewIntegrationHealth(p, now)
	}
	return s
}

// RecordSuccess resets the failure streak and recovers the provider once
// enough consecutive successes have been seen.
func (h *HealthTracker) RecordSuccess(p domain.ProviderID) domain.IntegrationHealth {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	s := h.entry(p, now)
	prev := s.Status

	s.ConsecutiveFailures = 0
	s.ConsecutiveSuccesses++
	s.LastCheckedAt = now
	s.LastError = ""
	if s.Status != domain.HealthHealthy && s.ConsecutiveSuccesses >= h.thresholds.RecoverAfter {
		s.Status = domain.HealthHealthy
		s.LastTransition = now
	}

	h.states[p] = s
	h.observe(s, prev)
	return s
}

// RecordFailure resets the success streak and degrades the provider as the
// failure streak crosses the thresholds.
func (h *HealthTracker) RecordFailure(p domain.ProviderID, cause error) domain.IntegrationHealth {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	s := h.entry(p, now)
	prev := s.Status

	s.ConsecutiveSuccesses = 0
	s.ConsecutiveFailures++
	s.LastCheckedAt = now
	if cause != nil {
		s.LastError = cause.Error()
	}
	switch {
	case s.ConsecutiveFailures >= h.thresholds.UnhealthyAfter && s.Status != domain.HealthUnhealthy:
		s.Status = domain.HealthUnhealthy
		s.LastTransition = now
	case s.ConsecutiveFailures >= h.thresholds.DegradedAfter && s.Status == domain.HealthHealthy:
		s.Status = domain.HealthDegraded
		s.LastTransition = now
	}

	h.states[p] = s
	h.observe(s, prev)
	return s
}

func (h *HealthTracker) observe(s domain.IntegrationHealth, prev domain.HealthStatus) {
	metrics.ProviderHealth.WithLabelValues(string(s.Provider)).Set(statusGauge(s.Status))
	if prev != s.Status {
		logger.With(
			zap.String("provider", string(s.Provider)),
			zap.String("from", string(prev)),
			zap.String("to", string(s.Status)),
			zap.Int("consecutive_failures", s.ConsecutiveFailures),
		).Info("provider health transition")
	}
}

func statusGauge(s domain.HealthStatus) float64 {
	switch s {
	case domain.HealthDegraded:
		return 1
	case domain.HealthUnhealthy:
		return 2
	default:
		return 0
	}
}

// ShouldSkip reports whether p is unhealthy and was last checked within the
// cooldown window. The window runs from the last check rather than the last
// transition, so a failed retry keeps the provider benched.
func (h *HealthTracker) ShouldSkip(p domain.ProviderID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.states[p]
	if !ok || s.Status != domain.HealthUnhealthy || h.thresholds.UnhealthyCooldown <= 0 {
		return false
	}
	return h.now().Sub(s.LastCheckedAt) < h.thresholds.UnhealthyCooldown
}

// GetIntegrationHealth returns a copy of one provider's state.
func (h *HealthTracker) GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.states[p]
	return s, ok
}

// Snapshot returns a copy of every provider's state, sorted by provider.
func (h *HealthTracker) Snapshot() []domain.IntegrationHealth {
	h.mu.RLock()
	out := make([]domain.IntegrationHealth, 0, len(h.states))
	for _, s := range h.states {
		out = append(out, s)
	}
	h.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}

// GetHealthSummary aggregates the snapshot. Overall is healthy when every
// provider is healthy, unhealthy when every provider is unhealthy, and
// degraded otherwise.
func (h *HealthTracker) GetHealthSummary() domain.HealthSummary {
	providers := h.Snapshot()
	summary := domain.HealthSummary{
		Overall:     domain.HealthHealthy,
		Providers:   providers,
		Thresholds:  h.Thresholds(),
		GeneratedAt: h.now(),
	}
	for _, s := range providers {
		switch s.Status {
		case domain.HealthHealthy:
			summary.Healthy++
		case domain.HealthDegraded:
			summary.Degraded++
		case domain.HealthUnhealthy:
			summary.Unhealthy++
		}
	}
	switch {
	case len(providers) > 0 && summary.Unhealthy == len(providers):
		summary.Overall = domain.HealthUnhealthy
	case summary.Degraded > 0 || summary.Unhealthy > 0:
		summary.Overall = domain.HealthDegraded
	}
	return summary
}
