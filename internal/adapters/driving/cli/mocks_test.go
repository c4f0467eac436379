package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

type mockSearch struct {
	resp *domain.SearchResponse
	err  error
	last domain.SearchRequest
}

func (m *mockSearch) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	m.last = req
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

type mockHealth struct {
	summary domain.HealthSummary
}

func (m *mockHealth) GetHealthSummary() domain.HealthSummary {
	return m.summary
}

func (m *mockHealth) GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool) {
	for _, h := range m.summary.Providers {
		if h.Provider == p {
			return h, true
		}
	}
	return domain.IntegrationHealth{}, false
}

type mockCredentials struct {
	mu      sync.Mutex
	bundles map[domain.ProviderID]domain.CredentialBundle
	err     error
}

func (m *mockCredentials) Connect(_ context.Context, b domain.CredentialBundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.bundles[b.Provider] = b
	return nil
}

func (m *mockCredentials) Disconnect(_ context.Context, _ string, p domain.ProviderID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bundles[p]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bundles, p)
	return nil
}

func (m *mockCredentials) List(_ context.Context, userID string) ([]domain.CredentialBundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.CredentialBundle, 0, len(m.bundles))
	for _, b := range m.bundles {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

// testRuntime exposes the mocks behind the runtime installed by
// setupTestServices.
type testRuntime struct {
	*Runtime
	search *mockSearch
	health *mockHealth
	creds  *mockCredentials
	config *memory.ConfigStore
	closed int
}

// setupTestServices installs a runtime backed by mocks and resets flag state.
func setupTestServices(t *testing.T) *testRuntime {
	t.Helper()
	t.Setenv("SERCHA_USER", "")
	t.Setenv("SERCHA_ORG", "")

	tr := &testRuntime{
		search: &mockSearch{resp: &domain.SearchResponse{Success: true}},
		health: &mockHealth{},
		creds:  &mockCredentials{bundles: make(map[domain.ProviderID]domain.CredentialBundle)},
		config: memory.NewConfigStore(),
	}
	tr.Runtime = &Runtime{
		Search:      tr.search,
		Health:      tr.health,
		Credentials: tr.creds,
		Config:      tr.config,
		Close: func(context.Context) error {
			tr.closed++
			return nil
		},
	}

	current = tr.Runtime
	userID = "alice"
	orgID = ""
	searchLimit = 10
	searchJSON = false
	healthJSON = false
	credMetadata = nil
	credExpiresIn = 0
	credStdin = false
	tokenTTL = time.Hour

	prevSecrets, prevSettings := secretInput, settingsInput
	t.Cleanup(func() {
		current = nil
		newRuntime = nil
		userID = ""
		orgID = ""
		secretInput = prevSecrets
		settingsInput = prevSettings
	})
	return tr
}

// execute runs the root command with args and returns combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
