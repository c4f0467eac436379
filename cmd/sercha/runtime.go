package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/sercha-federated/internal/connectors"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/core/services"
	"github.com/custodia-labs/sercha-federated/internal/logger"
	"github.com/custodia-labs/sercha-federated/internal/normalisers"
)

// requestSlack is added to the overall deadline to get the HTTP request
// timeout, so a search settles before its connection is cut.
const requestSlack = 5 * time.Second

// storage is the credential and history backend selected by storage.driver.
type storage struct {
	credentials driven.CredentialStore
	history     driven.SearchHistoryStore
	close       func() error
}

// buildRuntime assembles the engine from the config directory.
// An empty configDir means ~/.sercha.
func buildRuntime(ctx context.Context, configDir string) (*cli.Runtime, error) {
	config, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	dir := filepath.Dir(config.Path())

	settings, err := file.LoadEngineSettings(config)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", config.Path(), err)
	}
	storageSettings, err := file.LoadStorageSettings(config)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", config.Path(), err)
	}

	store, err := openStorage(ctx, storageSettings, dir, settings.RecentSearches)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		_ = store.close()
		return nil, fmt.Errorf("prompt store: %w", err)
	}
	llm := file.LoadLLMSettings(config)
	aiResult := ai.Init(&llm, prompts, ai.DefaultBreakerSettings())

	projections := normalisers.Default()
	for p, resolve := range connectors.WebURLResolvers() {
		projections.WithURLFallback(p, normalisers.URLResolver(resolve))
	}

	engine, err := services.NewEngine(settings, services.EngineDeps{
		CredentialStore: store.credentials,
		Builders:        connectors.Builders(),
		Projections:     projections,
		AI:              aiResult.AIService,
		History:         store.history,
	})
	if err != nil {
		aiResult.Close()
		_ = store.close()
		return nil, err
	}

	server := file.LoadServerSettings(config)
	rt := &cli.Runtime{
		Search:      engine.Search,
		Health:      engine.Health,
		Credentials: engine.Credentials,
		Config:      config,
		Server: httpapi.Config{
			Addr:           server.Addr,
			JWTSecret:      server.JWTSecret,
			AllowedOrigins: server.AllowedOrigins,
			RequestTimeout: settings.OverallDeadline + requestSlack,
		},
		ValidateLLM: validateLLM,
		Close: func(ctx context.Context) error {
			err := engine.Close(ctx)
			aiResult.Close()
			return errors.Join(err, store.close())
		},
	}
	rt.Watch = func(ctx context.Context) {
		w, err := file.NewWatcher(config, func(c *file.ConfigStore) {
			reloadEngine(engine, c)
		})
		if err != nil {
			logger.Warn("config changes will need a restart: %v", err)
			return
		}
		w.Run(ctx)
	}
	return rt, nil
}

func openStorage(ctx context.Context, s file.StorageSettings, configDir string, recent int) (*storage, error) {
	switch s.Driver {
	case file.DriverPostgres:
		pg, err := postgres.Open(ctx, s.DSN, postgres.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		logger.Debug("Storage: postgres")
		return &storage{credentials: pg.CredentialStore(), history: pg.SearchHistoryStore(), close: pg.Close}, nil
	case file.DriverMemory:
		logger.Debug("Storage: memory")
		return &storage{
			credentials: memory.NewCredentialStore(),
			history:     memory.NewSearchHistoryStore(recent),
			close:       func() error { return nil },
		}, nil
	default:
		dataDir := s.DataDir
		if dataDir == "" {
			dataDir = filepath.Join(configDir, "data")
		}
		lite, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Debug("Storage: sqlite %s", lite.Path())
		return &storage{credentials: lite.CredentialStore(), history: lite.SearchHistoryStore(), close: lite.Close}, nil
	}
}

// reloadEngine applies a changed [engine] section to the running engine.
// Invalid values are logged and the previous settings stay in effect.
func reloadEngine(engine *services.Engine, store driven.ConfigStore) {
	settings, err := file.LoadEngineSettings(store)
	if err != nil {
		logger.Warn("Ignoring config change: %v", err)
		return
	}
	if err := engine.ApplySettings(settings); err != nil {
		logger.Warn("Ignoring config change: %v", err)
	}
}

func validateLLM(settings domain.LLMSettings) error {
	svc, err := ai.CreateAndValidateLLMService(&settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("%w: provider %q is not fully configured", domain.ErrInvalidInput, settings.Provider)
	}
	svc.Close()
	return nil
}
