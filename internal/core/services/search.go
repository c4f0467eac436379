package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs the federated search pipeline:
// credentials, adapters, query processing, fan-out, normalisation, response.
type SearchService struct {
	resolver     *CredentialResolver
	factory      *AdapterFactory
	processor    *QueryProcessor
	orchestrator *Orchestrator
	transformer  *ResultTransformer
	builder      *ResponseBuilder
	analytics    *AnalyticsRecorder
	now          func() time.Time
}

// NewSearchService creates a search service from its pipeline stages.
func NewSearchService(
	resolver *CredentialResolver,
	factory *AdapterFactory,
	processor *QueryProcessor,
	orchestrator *Orchestrator,
	transformer *ResultTransformer,
	builder *ResponseBuilder,
) *SearchService {
	return &SearchService{
		resolver:     resolver,
		factory:      factory,
		processor:    processor,
		orchestrator: orchestrator,
		transformer:  transformer,
		builder:      builder,
		now:          time.Now,
	}
}

// SetAnalytics sets the recorder that receives one event per completed search.
func (s *SearchService) SetAnalytics(r *AnalyticsRecorder) {
	s.analytics = r
}

// Search implements driving.SearchService.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	rc := domain.SearchRequestContext{
		RawQuery:       req.Query,
		UserID:         req.UserID,
		OrganizationID: req.OrganizationID,
		RequestID:      req.RequestID,
		StartedAt:      s.now(),
	}
	if rc.RequestID == "" {
		rc.RequestID = uuid.NewString()
	}
	ctx = logger.WithRequestID(ctx, rc.RequestID)

	logger.Section("Federated Search")
	logger.Debug("Query: %q", req.Query)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	set, err := s.resolver.FetchAll(ctx, rc.UserID)
	if err != nil {
		return nil, err
	}
	s.resolver.ValidateAll(set)

	adapters := s.factory.Build(set)
	if len(adapters) == 0 {
		logger.FromContext(ctx).Warn("no usable providers", zap.String("user_id", rc.UserID))
		return nil, domain.ErrNoProviders
	}
	if anchor := s.resolver.IdentityAnchor(); adapters[anchor] == nil {
		logger.FromContext(ctx).Warn("identity anchor unusable",
			zap.String("user_id", rc.UserID), zap.String("provider", string(anchor)))
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingMandatoryCredential, anchor)
	}
	rc.Providers = s.factory.ListAvailable(adapters)

	rc.Processed = s.processor.Process(ctx, rc.RawQuery, rc.UserID, rc.OrganizationID, rc.Providers)

	exec := s.orchestrator.ExecuteAll(ctx, adapters, rc.Processed.Query, rc.RequestID)
	normalized := s.transformer.Normalize(exec.Results)

	resp := s.builder.Build(ctx, BuildInput{
		OriginalQuery:  rc.RawQuery,
		Processed:      rc.Processed,
		Results:        normalized,
		Failures:       exec.Failures,
		Providers:      rc.Providers,
		StartedAt:      rc.StartedAt,
		UserID:         rc.UserID,
		OrganizationID: rc.OrganizationID,
		RequestID:      rc.RequestID,
	})

	metrics.SearchDuration.Observe(s.now().Sub(rc.StartedAt).Seconds())
	logger.FromContext(ctx).Info("search complete",
		zap.Int("results", resp.TotalCount),
		zap.Int("failures", len(resp.Failures)),
		zap.Int64("processing_ms", resp.ProcessingTimeMs))

	if s.analytics != nil {
		s.analytics.Enqueue(domain.SearchEvent{
			RequestID:      rc.RequestID,
			UserID:         rc.UserID,
			OrganizationID: rc.OrganizationID,
			Query:          rc.RawQuery,
			ProcessedQuery: rc.Processed.Query,
			ResultCount:    resp.TotalCount,
			FailedCount:    len(resp.Failures),
			DurationMs:     resp.ProcessingTimeMs,
			CreatedAt:      rc.StartedAt,
		})
	}

	return resp, nil
}
