package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/ratelimit"
)

// EngineDeps are the driven ports the engine is assembled from.
type EngineDeps struct {
	// CredentialStore is required.
	CredentialStore driven.CredentialStore
	// Builders is the provider dispatch table. Required.
	Builders map[domain.ProviderID]driven.AdapterBuilder
	// Projections selects result projections. Required.
	Projections driven.ProjectionRegistry
	// AI is optional; without it queries are not rewritten and results are
	// ordered by recency.
	AI driven.AIService
	// History is optional; it feeds recent searches and stores analytics.
	History driven.SearchHistoryStore
}

// Engine is the assembled search engine. One instance owns the health state
// for the whole process and is shared by every driving adapter.
type Engine struct {
	Search       *SearchService
	Health       *HealthTracker
	Orchestrator *Orchestrator
	Credentials  *CredentialService
	Analytics    *AnalyticsRecorder
	Limiters     *ratelimit.Registry
}

// NewEngine wires every pipeline stage from settings and deps.
func NewEngine(settings domain.EngineSettings, deps EngineDeps) (*Engine, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("engine settings: %w", err)
	}
	if deps.CredentialStore == nil || deps.Builders == nil || deps.Projections == nil {
		return nil, fmt.Errorf("%w: credential store, builders and projections are required", domain.ErrInvalidInput)
	}

	health := NewHealthTracker(settings.Health)
	limiters := ratelimit.NewRegistry(ratelimit.DefaultCapacity, ratelimit.DefaultIdleTTL)
	factory := NewAdapterFactory(deps.Builders, driven.AdapterOptions{
		MaxResults: settings.ResultsPerProvider,
		Limiters:   limiters,
	})
	if !factory.Supports(settings.IdentityAnchor) {
		logger.Warn("No adapter builder for identity anchor %s; every search will fail", settings.IdentityAnchor)
	}
	orchestrator := NewOrchestrator(health, orchestratorOptions(settings))

	search := NewSearchService(
		NewCredentialResolver(deps.CredentialStore, settings.IdentityAnchor, settings.StoreTimeout),
		factory,
		NewQueryProcessor(deps.AI, deps.History, settings.QueryTimeout, settings.RecentSearches),
		orchestrator,
		NewResultTransformer(deps.Projections),
		NewResponseBuilder(deps.AI, settings.RankTimeout, settings.MaxRankCandidates),
	)

	var analytics *AnalyticsRecorder
	if deps.History != nil {
		analytics = NewAnalyticsRecorder(deps.History, settings.AnalyticsQueueSize)
		search.SetAnalytics(analytics)
	}

	return &Engine{
		Search:       search,
		Health:       health,
		Orchestrator: orchestrator,
		Credentials:  NewCredentialService(deps.CredentialStore),
		Analytics:    analytics,
		Limiters:     limiters,
	}, nil
}

// ApplySettings updates the fan-out bounds and health thresholds of a running
// engine. Other settings take effect on restart.
func (e *Engine) ApplySettings(settings domain.EngineSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := e.Health.SetThresholds(settings.Health); err != nil {
		return err
	}
	e.Orchestrator.SetOptions(orchestratorOptions(settings))
	logger.Info("Engine settings reloaded: adapter_timeout=%s overall_deadline=%s degraded_after=%d unhealthy_after=%d",
		settings.AdapterTimeout, settings.OverallDeadline, settings.Health.DegradedAfter, settings.Health.UnhealthyAfter)
	return nil
}

// Close drops the rate limiters and drains the analytics queue.
func (e *Engine) Close(ctx context.Context) error {
	e.Limiters.Purge()
	if e.Analytics == nil {
		return nil
	}
	return e.Analytics.Close(ctx)
}

func orchestratorOptions(s domain.EngineSettings) OrchestratorOptions {
	return OrchestratorOptions{
		AdapterTimeout:  s.AdapterTimeout,
		OverallDeadline: s.OverallDeadline,
		MaxConcurrency:  s.MaxConcurrency,
	}
}
