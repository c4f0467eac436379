package memory

import (
	"sync"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/values"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
// The engine uses it when no config file is wanted, and tests use it to
// inject settings directly.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString returns a string value, or "".
func (s *ConfigStore) GetString(key string) string { return values.String(s.Get(key)) }

// GetInt returns an integer value, or 0.
func (s *ConfigStore) GetInt(key string) int { return values.Int(s.Get(key)) }

// GetBool returns a boolean value, or false.
func (s *ConfigStore) GetBool(key string) bool { return values.Bool(s.Get(key)) }

// GetDuration accepts a time.Duration, a duration string or whole seconds.
func (s *ConfigStore) GetDuration(key string) time.Duration { return values.Duration(s.Get(key)) }

// GetStringSlice returns a list value, or nil.
func (s *ConfigStore) GetStringSlice(key string) []string { return values.StringSlice(s.Get(key)) }

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Save and Load have nothing to persist.
func (s *ConfigStore) Save() error { return nil }
func (s *ConfigStore) Load() error { return nil }

// Path is ":memory:".
func (s *ConfigStore) Path() string { return ":memory:" }
