package file

import (
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyIdentityAnchor     = "engine.identity_anchor"
	KeyAdapterTimeout     = "engine.adapter_timeout"
	KeyOverallDeadline    = "engine.overall_deadline"
	KeyQueryTimeout       = "engine.query_timeout"
	KeyRankTimeout        = "engine.rank_timeout"
	KeyStoreTimeout       = "engine.store_timeout"
	KeyMaxConcurrency     = "engine.max_concurrency"
	KeyMaxRankCandidates  = "engine.max_rank_candidates"
	KeyResultsPerProvider = "engine.results_per_provider"
	KeyAnalyticsQueue     = "engine.analytics_queue"
	KeyRecentSearches     = "engine.recent_searches"

	KeyDegradedAfter     = "engine.health.degraded_after"
	KeyUnhealthyAfter    = "engine.health.unhealthy_after"
	KeyRecoverAfter      = "engine.health.recover_after"
	KeyUnhealthyCooldown = "engine.health.unhealthy_cooldown"

	KeyAIProvider = "ai.provider"
	KeyAIModel    = "ai.model"
	KeyAIAPIKey   = "ai.api_key"
	KeyAIBaseURL  = "ai.base_url"

	KeyStorageDriver = "storage.driver"
	KeyStorageDSN    = "storage.dsn"
	KeyStorageDir    = "storage.data_dir"

	KeyServerAddr      = "server.addr"
	KeyServerJWTSecret = "server.jwt_secret"
	KeyServerOrigins   = "server.allowed_origins"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StorageSettings selects the credential and history backend.
type StorageSettings struct {
	Driver  string
	DSN     string
	DataDir string
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr           string
	JWTSecret      string
	AllowedOrigins []string
}

// LoadEngineSettings overlays configured values on the defaults and
// validates the result. Unset keys keep their default.
func LoadEngineSettings(store driven.ConfigStore) (domain.EngineSettings, error) {
	s := domain.DefaultEngineSettings()

	if v := store.GetString(KeyIdentityAnchor); v != "" {
		s.IdentityAnchor = domain.ProviderID(v)
	}

	durations := map[string]*time.Duration{
		KeyAdapterTimeout:    &s.AdapterTimeout,
		KeyOverallDeadline:   &s.OverallDeadline,
		KeyQueryTimeout:      &s.QueryTimeout,
		KeyRankTimeout:       &s.RankTimeout,
		KeyStoreTimeout:      &s.StoreTimeout,
		KeyUnhealthyCooldown: &s.Health.UnhealthyCooldown,
	}
	for key, dst := range durations {
		if _, ok := store.Get(key); !ok {
			continue
		}
		d := store.GetDuration(key)
		if d <= 0 && key != KeyUnhealthyCooldown {
			return s, fmt.Errorf("%w: %s is not a positive duration", domain.ErrInvalidInput, key)
		}
		*dst = d
	}

	ints := map[string]*int{
		KeyMaxConcurrency:     &s.MaxConcurrency,
		KeyMaxRankCandidates:  &s.MaxRankCandidates,
		KeyResultsPerProvider: &s.ResultsPerProvider,
		KeyAnalyticsQueue:     &s.AnalyticsQueueSize,
		KeyRecentSearches:     &s.RecentSearches,
		KeyDegradedAfter:      &s.Health.DegradedAfter,
		KeyUnhealthyAfter:     &s.Health.UnhealthyAfter,
		KeyRecoverAfter:       &s.Health.RecoverAfter,
	}
	for key, dst := range ints {
		if _, ok := store.Get(key); ok {
			*dst = store.GetInt(key)
		}
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// LoadLLMSettings reads the AI provider configuration. An unset provider
// yields settings for which IsConfigured is false.
func LoadLLMSettings(store driven.ConfigStore) domain.LLMSettings {
	s := domain.LLMSettings{
		Provider: domain.AIProvider(store.GetString(KeyAIProvider)),
		Model:    store.GetString(KeyAIModel),
		APIKey:   store.GetString(KeyAIAPIKey),
		BaseURL:  store.GetString(KeyAIBaseURL),
	}
	if s.Model == "" {
		s.Model = domain.DefaultLLMModels()[s.Provider]
	}
	return s
}

// LoadStorageSettings reads the storage backend. Defaults to sqlite.
func LoadStorageSettings(store driven.ConfigStore) (StorageSettings, error) {
	s := StorageSettings{
		Driver:  store.GetString(KeyStorageDriver),
		DSN:     store.GetString(KeyStorageDSN),
		DataDir: store.GetString(KeyStorageDir),
	}
	if s.Driver == "" {
		s.Driver = DriverSQLite
	}
	switch s.Driver {
	case DriverSQLite, DriverMemory:
	case DriverPostgres:
		if s.DSN == "" {
			return s, fmt.Errorf("%w: %s is required for postgres", domain.ErrInvalidInput, KeyStorageDSN)
		}
	default:
		return s, fmt.Errorf("%w: unknown storage driver %q", domain.ErrInvalidInput, s.Driver)
	}
	return s, nil
}

// LoadServerSettings reads the HTTP API settings.
func LoadServerSettings(store driven.ConfigStore) ServerSettings {
	s := ServerSettings{
		Addr:           store.GetString(KeyServerAddr),
		JWTSecret:      store.GetString(KeyServerJWTSecret),
		AllowedOrigins: store.GetStringSlice(KeyServerOrigins),
	}
	if s.Addr == "" {
		s.Addr = ":8080"
	}
	return s
}
