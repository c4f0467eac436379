package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq" // Postgres driver
	"go.uber.org/zap"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/migrate"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/storage/postgres/migrations"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Options tunes the connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// ConnectRetries is how many times Open pings before giving up.
	ConnectRetries uint64
}

// DefaultOptions returns pool settings suitable for a single engine process.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnectRetries:  5,
	}
}

// Store is a Postgres-backed credential and history store.
type Store struct {
	db *sql.DB
}

// Open connects to dsn, retrying the initial ping, and applies pending migrations.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	attempt := 0
	ping := func() error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pctx)
	}
	notify := func(err error, wait time.Duration) {
		logger.With(zap.Int("attempt", attempt), zap.Error(err)).Warn("postgres ping failed, retrying in " + wait.String())
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), opts.ConnectRetries), ctx)
	if err := backoff.RetryNotify(ping, policy, notify); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database after %d attempts: %w", attempt, err)
	}

	s := NewWithDB(db)
	if err := s.upgrade(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("postgres store ready")
	return s, nil
}

// NewWithDB wraps an already connected database without migrating it.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CredentialStore returns a CredentialStore backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{db: s.db}
}

// SearchHistoryStore returns a SearchHistoryStore backed by this store.
func (s *Store) SearchHistoryStore() driven.SearchHistoryStore {
	return &historyStore{db: s.db}
}

// upgrade applies pending schema migrations.
func (s *Store) upgrade(ctx context.Context) error {
	applied, err := migrate.Up(ctx, s.db, migrations.FS, migrate.Postgres)
	for _, m := range applied {
		logger.Debug("applied migration %s", m.Name)
	}
	return err
}
