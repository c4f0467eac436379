package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCredentialStore implements driven.CredentialStore for testing.
type mockCredentialStore struct {
	mu            sync.Mutex
	bundles       []domain.CredentialBundle
	err           error
	calls         int
	lastProviders []domain.ProviderID
	saved         []domain.CredentialBundle
	deleteErr     error
}

func (m *mockCredentialStore) GetCredentials(_ context.Context, userID string, providers []domain.ProviderID) ([]domain.CredentialBundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastProviders = providers
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.CredentialBundle
	for _, b := range m.bundles {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockCredentialStore) SaveCredentials(_ context.Context, b domain.CredentialBundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, b)
	return nil
}

func (m *mockCredentialStore) DeleteCredentials(_ context.Context, _ string, _ domain.ProviderID) error {
	return m.deleteErr
}

// mockAdapter implements driven.ProviderAdapter for testing.
type mockAdapter struct {
	provider domain.ProviderID
	results  []domain.RawResult
	err      error
	delay    time.Duration
	// stubborn adapters ignore context cancellation.
	stubborn bool
	calls    atomic.Int32
}

func (m *mockAdapter) Provider() domain.ProviderID {
	return m.provider
}

func (m *mockAdapter) Search(ctx context.Context, _ string) ([]domain.RawResult, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		if m.stubborn {
			time.Sleep(m.delay)
		} else {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				return nil, domain.NewProviderError(m.provider, "search", ctx.Err())
			}
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockAI implements driven.AIService for testing.
type mockAI struct {
	processed  *domain.ProcessedQuery
	processErr error
	// block makes ProcessQuery wait for the context to expire.
	block       bool
	scores      map[string]float64
	rankErr     error
	lastContext domain.QueryContext
	rankedIDs   []string
	processN    atomic.Int32
	rankN       atomic.Int32
}

func (m *mockAI) ProcessQuery(ctx context.Context, _ string, qctx domain.QueryContext) (*domain.ProcessedQuery, error) {
	m.processN.Add(1)
	m.lastContext = qctx
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.processErr != nil {
		return nil, m.processErr
	}
	return m.processed, nil
}

func (m *mockAI) RankResults(_ context.Context, _ string, candidates []domain.NormalizedResult, _ *domain.Intent) (map[string]float64, error) {
	m.rankN.Add(1)
	m.rankedIDs = nil
	for _, c := range candidates {
		m.rankedIDs = append(m.rankedIDs, c.ID)
	}
	if m.rankErr != nil {
		return nil, m.rankErr
	}
	return m.scores, nil
}

// mockHistory implements driven.SearchHistoryStore for testing.
type mockHistory struct {
	mu     sync.Mutex
	recent []string
	err    error
	events []domain.SearchEvent
	// gate, when set, blocks RecordSearch until closed.
	gate chan struct{}
}

func (m *mockHistory) RecordSearch(_ context.Context, e domain.SearchEvent) error {
	if m.gate != nil {
		<-m.gate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.err
}

func (m *mockHistory) RecentSearches(_ context.Context, _ string, limit int) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.recent) {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockHistory) recorded() []domain.SearchEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.SearchEvent(nil), m.events...)
}

// mockProjections projects the generic fields used by the tests.
type mockProjections struct{}

func (mockProjections) Projection(p domain.ProviderID) (driven.Projection, bool) {
	return func(raw domain.RawResult) (domain.NormalizedResult, error) {
		id := raw.Text("id")
		if id == "" {
			return domain.NormalizedResult{}, domain.ErrMalformedPayload
		}
		return domain.NormalizedResult{
			ID:        string(p) + ":" + id,
			Title:     raw.Text("title"),
			URL:       raw.Text("url"),
			CreatedAt: raw.Time("created"),
		}, nil
	}, true
}

// --- Helpers ---

func bundle(user string, p domain.ProviderID) domain.CredentialBundle {
	return domain.CredentialBundle{
		UserID:        user,
		Provider:      p,
		AccessSecret:  "access-" + string(p),
		RefreshSecret: "refresh-" + string(p),
	}
}

func raw(p domain.ProviderID, id, title string) domain.RawResult {
	return domain.NewRawResult(p).Set("id", id).Set("title", title)
}

// buildersFor returns a dispatch table that hands out the given adapters.
func buildersFor(adapters ...*mockAdapter) map[domain.ProviderID]driven.AdapterBuilder {
	table := make(map[domain.ProviderID]driven.AdapterBuilder, len(adapters))
	for _, a := range adapters {
		table[a.provider] = func(domain.CredentialBundle, driven.AdapterOptions) (driven.ProviderAdapter, error) {
			return a, nil
		}
	}
	return table
}

func testSettings() domain.EngineSettings {
	s := domain.DefaultEngineSettings()
	s.AdapterTimeout = 100 * time.Millisecond
	s.OverallDeadline = 200 * time.Millisecond
	s.QueryTimeout = 50 * time.Millisecond
	s.RankTimeout = 50 * time.Millisecond
	s.StoreTimeout = 50 * time.Millisecond
	return s
}
