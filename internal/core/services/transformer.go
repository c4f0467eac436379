package services

import (
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// ResultTransformer maps provider-native results into the normalised shape.
type ResultTransformer struct {
	registry driven.ProjectionRegistry
}

// NewResultTransformer creates a transformer over the projection registry.
func NewResultTransformer(registry driven.ProjectionRegistry) *ResultTransformer {
	return &ResultTransformer{registry: registry}
}

// Normalize projects every raw result. Provider order and each provider's
// native order are preserved. An item the projection rejects is dropped with
// a warning; its siblings are still normalised. Duplicate ids within the
// batch keep the first occurrence.
func (t *ResultTransformer) Normalize(results []domain.ProviderResults) []domain.NormalizedResult {
	logger.Section("Normalisation")

	total := 0
	for _, pr := range results {
		total += len(pr.Results)
	}
	out := make([]domain.NormalizedResult, 0, total)
	seen := make(map[string]struct{}, total)

	for _, pr := range results {
		project, ok := t.registry.Projection(pr.Provider)
		if !ok {
			logger.With(zap.String("provider", string(pr.Provider))).
				Warn("no projection registered, dropping provider results", zap.Int("count", len(pr.Results)))
			continue
		}

		for i, raw := range pr.Results {
			n, err := t.projectOne(project, raw)
			if err != nil {
				logger.With(
					zap.String("provider", string(pr.Provider)),
					zap.Int("index", i),
				).Warn("dropping malformed result", zap.Error(err))
				continue
			}
			n.Source = pr.Provider
			if _, dup := seen[n.ID]; dup {
				logger.Debug("Duplicate result id %s from %s", n.ID, pr.Provider)
				continue
			}
			seen[n.ID] = struct{}{}
			out = append(out, n)
		}
	}

	logger.Debug("Normalised %d of %d raw result(s)", len(out), total)
	return out
}

func (t *ResultTransformer) projectOne(project driven.Projection, raw domain.RawResult) (n domain.NormalizedResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.ErrMalformedPayload
		}
	}()
	return project(raw)
}
