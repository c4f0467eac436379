package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/metrics"
)

// BuildInput is everything the response builder needs for one request.
type BuildInput struct {
	OriginalQuery  string
	Processed      domain.ProcessedQuery
	Results        []domain.NormalizedResult
	Failures       []domain.ProviderFailure
	Providers      []domain.ProviderID
	StartedAt      time.Time
	UserID         string
	OrganizationID string
	RequestID      string
}

// ResponseBuilder ranks, deduplicates and wraps normalised results.
type ResponseBuilder struct {
	ai            driven.AIService
	timeout       time.Duration
	maxCandidates int
	now           func() time.Time
}

// NewResponseBuilder creates a response builder. ai is optional (can be nil).
func NewResponseBuilder(ai driven.AIService, timeout time.Duration, maxCandidates int) *ResponseBuilder {
	return &ResponseBuilder{
		ai:            ai,
		timeout:       timeout,
		maxCandidates: maxCandidates,
		now:           time.Now,
	}
}

// Build produces the response envelope. Ranking failures fall back to a
// recency ordering; they never fail the request.
func (b *ResponseBuilder) Build(ctx context.Context, in BuildInput) *domain.SearchResponse {
	logger.Section("Response Assembly")

	scored, ranked := b.score(ctx, in)
	data := rankResults(dedupe(scored))

	return &domain.SearchResponse{
		Success:          true,
		Data:             data,
		TotalCount:       len(data),
		ProcessingTimeMs: b.now().Sub(in.StartedAt).Milliseconds(),
		Query: domain.QueryMetadata{
			Original:  in.OriginalQuery,
			Processed: in.Processed.Query,
			Intent:    in.Processed.Intent,
			Providers: in.Providers,
			Ranked:    ranked,
		},
		Failures:  in.Failures,
		RequestID: in.RequestID,
	}
}

// score returns every candidate with a relevance score and whether the AI
// ranking step produced those scores.
func (b *ResponseBuilder) score(ctx context.Context, in BuildInput) ([]domain.RankedResult, bool) {
	if len(in.Results) == 0 {
		return nil, false
	}
	if b.ai == nil {
		logger.Debug("AI ranking not configured, ordering by recency")
		return fallbackScores(in.Results), false
	}

	candidates := in.Results
	if b.maxCandidates > 0 && len(candidates) > b.maxCandidates {
		candidates = candidates[:b.maxCandidates]
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	scores, err := b.ai.RankResults(ctx, in.Processed.Query, candidates, in.Processed.Intent)
	if err != nil {
		metrics.AIFallbacks.WithLabelValues(metrics.StageRank).Inc()
		logger.FromContext(ctx).Warn("ranking failed, ordering by recency",
			zap.String("op", "rank_results"),
			zap.String("request_id", in.RequestID),
			zap.Int("candidates", len(candidates)),
			zap.Error(err))
		return fallbackScores(in.Results), false
	}

	out := make([]domain.RankedResult, len(in.Results))
	for i, r := range in.Results {
		out[i] = domain.RankedResult{NormalizedResult: r, Score: clamp01(scores[r.ID])}
	}
	return out, true
}

// fallbackScores orders by creation time, newest first, with undated results
// last and provider order as the tie-breaker. Scores descend linearly from 1.
func fallbackScores(results []domain.NormalizedResult) []domain.RankedResult {
	ordered := make([]domain.NormalizedResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].CreatedAt, ordered[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	n := float64(len(ordered))
	out := make([]domain.RankedResult, len(ordered))
	for i, r := range ordered {
		out[i] = domain.RankedResult{NormalizedResult: r, Score: 1 - float64(i)/n}
	}
	return out
}

// dedupe collapses results that share a canonical URL (or, lacking one, an id),
// keeping the highest-scored copy. First-seen order is preserved.
func dedupe(results []domain.RankedResult) []domain.RankedResult {
	index := make(map[string]int, len(results))
	out := make([]domain.RankedResult, 0, len(results))

	for _, r := range results {
		key := dedupeKey(r.NormalizedResult)
		if i, ok := index[key]; ok {
			if r.Score > out[i].Score {
				out[i] = r
			}
			continue
		}
		index[key] = len(out)
		out = append(out, r)
	}
	return out
}

func dedupeKey(r domain.NormalizedResult) string {
	if u := CanonicalURL(r.URL); u != "" {
		return "url:" + u
	}
	return "id:" + r.ID
}

// rankResults sorts by descending score and assigns dense 0-based ranks.
func rankResults(results []domain.RankedResult) []domain.RankedResult {
	if results == nil {
		return []domain.RankedResult{}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	for i := range results {
		results[i].Rank = i
	}
	return results
}

// CanonicalURL normalises a URL for duplicate detection: lower-case scheme
// and host, default ports and fragments removed, tracking parameters dropped,
// query sorted and trailing slash trimmed. Unparseable input is returned
// trimmed and lower-cased.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if port := u.Port(); port != "" && !(u.Scheme == "https" && port == "443") && !(u.Scheme == "http" && port == "80") {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	u.User = nil
	u.Path = strings.TrimSuffix(u.Path, "/")

	q := u.Query()
	for k := range q {
		if strings.HasPrefix(strings.ToLower(k), "utm_") {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
