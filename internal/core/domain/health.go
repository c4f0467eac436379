package domain

import (
	"fmt"
	"time"
)

// HealthStatus is the rolling assessment of one provider.
type HealthStatus string

// Health statuses.
const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// IsValid returns true if the status is recognised.
func (s HealthStatus) IsValid() bool {
	switch s {
	case HealthHealthy, HealthDegraded, HealthUnhealthy:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s HealthStatus) String() string {
	return string(s)
}

// IntegrationHealth is the health state of one provider.
// It lives for the process lifetime and is never persisted.
type IntegrationHealth struct {
	Provider             ProviderID   `json:"provider"`
	ConsecutiveSuccesses int          `json:"consecutiveSuccesses"`
	ConsecutiveFailures  int          `json:"consecutiveFailures"`
	Status               HealthStatus `json:"status"`
	LastTransition       time.Time    `json:"lastTransition"`
	LastCheckedAt        time.Time    `json:"lastCheckedAt,omitempty"`
	LastError            string       `json:"lastError,omitempty"`
}

// NewIntegrationHealth returns the initial state for a provider.
func NewIntegrationHealth(p ProviderID, now time.Time) IntegrationHealth {
	return IntegrationHealth{
		Provider:       p,
		Status:         HealthHealthy,
		LastTransition: now,
	}
}

// HealthThresholds configures health state transitions.
type HealthThresholds struct {
	// DegradedAfter consecutive failures move a healthy provider to degraded.
	DegradedAfter int `json:"degradedAfter"`
	// UnhealthyAfter consecutive failures move a provider to unhealthy.
	UnhealthyAfter int `json:"unhealthyAfter"`
	// RecoverAfter consecutive successes move a provider back to healthy.
	RecoverAfter int `json:"recoverAfter"`
	// UnhealthyCooldown is how long an unhealthy provider is skipped
	// before it is tried again. Zero disables skipping.
	UnhealthyCooldown time.Duration `json:"unhealthyCooldown"`
}

// DefaultHealthThresholds returns the default thresholds.
func DefaultHealthThresholds() HealthThresholds {
	return HealthThresholds{
		DegradedAfter:     3,
		UnhealthyAfter:    5,
		RecoverAfter:      2,
		UnhealthyCooldown: 30 * time.Second,
	}
}

// Validate checks the thresholds are usable.
func (t HealthThresholds) Validate() error {
	if t.DegradedAfter < 1 || t.RecoverAfter < 1 {
		return fmt.Errorf("%w: health thresholds must be positive", ErrInvalidInput)
	}
	if t.UnhealthyAfter <= t.DegradedAfter {
		return fmt.Errorf("%w: unhealthy threshold (%d) must exceed degraded threshold (%d)",
			ErrInvalidInput, t.UnhealthyAfter, t.DegradedAfter)
	}
	if t.UnhealthyCooldown < 0 {
		return fmt.Errorf("%w: unhealthy cooldown must not be negative", ErrInvalidInput)
	}
	return nil
}

// HealthSummary aggregates the health of every provider seen so far.
type HealthSummary struct {
	Overall     HealthStatus        `json:"overall"`
	Healthy     int                 `json:"healthy"`
	Degraded    int                 `json:"degraded"`
	Unhealthy   int                 `json:"unhealthy"`
	Providers   []IntegrationHealth `json:"providers"`
	Thresholds  HealthThresholds    `json:"thresholds"`
	GeneratedAt time.Time           `json:"generatedAt"`
}
