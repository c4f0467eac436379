package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const testSecret = "test-secret"

type stubSearch struct {
	got  domain.SearchRequest
	resp *domain.SearchResponse
	err  error
}

func (s *stubSearch) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

type stubHealth struct {
	summary domain.HealthSummary
	byID    map[domain.ProviderID]domain.IntegrationHealth
}

func (h *stubHealth) GetHealthSummary() domain.HealthSummary { return h.summary }

func (h *stubHealth) GetIntegrationHealth(p domain.ProviderID) (domain.IntegrationHealth, bool) {
	v, ok := h.byID[p]
	return v, ok
}

func newTestServer(search *stubSearch, health *stubHealth) *Server {
	if health == nil {
		health = &stubHealth{}
	}
	return New(Config{JWTSecret: testSecret}, search, health)
}

func token(t *testing.T, sub, org string) string {
	t.Helper()
	tok, err := IssueToken(testSecret, sub, org, time.Hour)
	require.NoError(t, err)
	return tok
}

func doSearch(srv *Server, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) domain.ErrorEnvelope {
	t.Helper()
	var env domain.ErrorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubSearch{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestSearch_Success(t *testing.T) {
	search := &stubSearch{resp: &domain.SearchResponse{Success: true, Data: []domain.RankedResult{}}}
	srv := newTestServer(search, nil)

	w := doSearch(srv, "Bearer "+token(t, "user-1", "org-claim"), `{"query":"budget planning"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "budget planning", search.got.Query)
	assert.Equal(t, "user-1", search.got.UserID)
	assert.Equal(t, "org-claim", search.got.OrganizationID)
	assert.Equal(t, w.Header().Get(requestIDHeader), search.got.RequestID)

	var resp domain.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestSearch_BodyOrganizationWins(t *testing.T) {
	search := &stubSearch{resp: &domain.SearchResponse{Success: true}}
	srv := newTestServer(search, nil)

	w := doSearch(srv, "Bearer "+token(t, "user-1", "org-claim"), `{"query":"q","organizationId":"org-body"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "org-body", search.got.OrganizationID)
}

func TestSearch_KeepsCallerRequestID(t *testing.T) {
	search := &stubSearch{resp: &domain.SearchResponse{Success: true}}
	srv := newTestServer(search, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{"query":"q"}`))
	req.Header.Set("Authorization", "Bearer "+token(t, "u", ""))
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
	assert.Equal(t, "req-42", search.got.RequestID)
}

func TestSearch_Unauthenticated(t *testing.T) {
	expired, err := IssueToken(testSecret, "u", "", -time.Minute)
	require.NoError(t, err)
	wrongKey, err := IssueToken("other-secret", "u", "", time.Hour)
	require.NoError(t, err)
	noSubject, err := IssueToken(testSecret, "", "", time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dTpw"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSubject},
		{"alg none", "Bearer " + none},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &stubSearch{}
			w := doSearch(newTestServer(search, nil), tt.auth, `{"query":"q"}`)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "UNAUTHENTICATED", decodeEnvelope(t, w).Code)
			assert.Empty(t, search.got.Query, "engine must not run")
		})
	}
}

func TestSearch_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"empty query", domain.ErrInvalidQuery, http.StatusBadRequest, "INVALID_QUERY"},
		{"too long", domain.ErrQueryTooLong, http.StatusBadRequest, "QUERY_TOO_LONG"},
		{"anchor missing", domain.ErrMissingMandatoryCredential, http.StatusBadRequest, "MISSING_MANDATORY_CREDENTIAL"},
		{"no providers", domain.ErrNoProviders, http.StatusBadRequest, "NO_PROVIDERS"},
		{"internal", assert.AnError, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&stubSearch{err: tt.err}, nil)

			w := doSearch(srv, "Bearer "+token(t, "u", ""), `{"query":"q"}`)

			assert.Equal(t, tt.status, w.Code)
			env := decodeEnvelope(t, w)
			assert.Equal(t, tt.code, env.Code)
			assert.False(t, env.Timestamp.IsZero())
		})
	}
}

func TestSearch_InternalErrorHidesDetail(t *testing.T) {
	srv := newTestServer(&stubSearch{err: assert.AnError}, nil)

	w := doSearch(srv, "Bearer "+token(t, "u", ""), `{"query":"q"}`)

	assert.Equal(t, "internal server error", decodeEnvelope(t, w).Error)
}

func TestSearch_MalformedBody(t *testing.T) {
	search := &stubSearch{}
	w := doSearch(newTestServer(search, nil), "Bearer "+token(t, "u", ""), `{"query":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decodeEnvelope(t, w).Code)
}

func TestHealthSummary(t *testing.T) {
	health := &stubHealth{summary: domain.HealthSummary{
		Overall:   domain.HealthDegraded,
		Healthy:   1,
		Degraded:  1,
		Providers: []domain.IntegrationHealth{{Provider: domain.ProviderGmail, Status: domain.HealthHealthy}},
	}}
	srv := newTestServer(&stubSearch{}, health)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got domain.HealthSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, domain.HealthDegraded, got.Overall)
	assert.Len(t, got.Providers, 1)
}

func TestProviderHealth(t *testing.T) {
	health := &stubHealth{byID: map[domain.ProviderID]domain.IntegrationHealth{
		domain.ProviderSlack: {Provider: domain.ProviderSlack, Status: domain.HealthUnhealthy, ConsecutiveFailures: 5},
	}}
	srv := newTestServer(&stubSearch{}, health)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/v1/health/slack", http.StatusOK},
		{"/api/v1/health/notion", http.StatusNotFound},
		{"/api/v1/health/myspace", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{JWTSecret: testSecret, AllowedOrigins: []string{"*"}}, &stubSearch{}, &stubHealth{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/search", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubSearch{}, nil)

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	srv := New(Config{Addr: "127.0.0.1:0", JWTSecret: testSecret}, &stubSearch{}, &stubHealth{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
