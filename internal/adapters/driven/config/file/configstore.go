package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/config/values"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in <dir>/config.toml. Nested tables are
// flattened into dot keys on load and expanded again on save, so the file
// stays hand-editable. SERCHA_* environment variables override the file
// for reads and are never written back.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	data     map[string]any
}

// ResolveDir returns dir, or ~/.sercha when dir is empty.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sercha"), nil
}

// LoadEnvFile exports the variables in <dir>/.env. Variables already set
// in the process win, and a missing file is not an error.
func LoadEnvFile(dir string) error {
	dir, err := ResolveDir(dir)
	if err != nil {
		return err
	}
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", filepath.Join(dir, ".env"), err)
	}
	return nil
}

// NewConfigStore opens <configDir>/config.toml, creating the directory.
// If configDir is empty, defaults to ~/.sercha.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	configDir, err := ResolveDir(configDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		data:     make(map[string]any),
	}

	// Load existing data if file exists
	if err := s.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return s, nil
}

// EnvPrefix starts the environment variables that override file values.
const EnvPrefix = "SERCHA_"

// EnvName returns the variable that overrides key: "engine.adapter_timeout"
// is SERCHA_ENGINE_ADAPTER_TIMEOUT.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Get returns the value for key. A non-empty environment override wins
// over the file.
func (s *ConfigStore) Get(key string) (any, bool) {
	if v, ok := os.LookupEnv(EnvName(key)); ok && v != "" {
		return v, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

// GetString returns a string value, or "" if missing or not a string.
func (s *ConfigStore) GetString(key string) string {
	return values.String(s.Get(key))
}

// GetInt returns an integer value, or 0.
func (s *ConfigStore) GetInt(key string) int {
	return values.Int(s.Get(key))
}

// GetBool returns a boolean value, or false.
func (s *ConfigStore) GetBool(key string) bool {
	return values.Bool(s.Get(key))
}

// GetDuration returns a duration. TOML has no duration type, so values are
// written as Go duration strings ("8s", "1500ms"); bare integers are seconds.
func (s *ConfigStore) GetDuration(key string) time.Duration {
	return values.Duration(s.Get(key))
}

// GetStringSlice returns a list value. Environment overrides are comma
// separated.
func (s *ConfigStore) GetStringSlice(key string) []string {
	if env := os.Getenv(EnvName(key)); env != "" {
		return values.SplitList(env)
	}
	return values.StringSlice(s.Get(key))
}

// Set stores a configuration value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	return s.save()
}

// Delete removes a key and persists immediately.
func (s *ConfigStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return s.save()
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes configuration to the TOML file (caller must hold lock).
// Dot keys are expanded back into tables so the file stays hand-editable.
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(unflattenMap(s.data))
	if err != nil {
		return err
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Load reads configuration from the TOML file.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, start empty
			s.data = make(map[string]any)
			return nil
		}
		return err
	}

	var loaded map[string]any
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return err
	}

	if loaded == nil {
		loaded = make(map[string]any)
	}

	// Flatten nested maps into dot-notation keys for easier access
	s.data = flattenMap(loaded, "")
	return nil
}

// flattenMap converts nested maps to dot-notation keys.
// E.g., {"a": {"b": 1}} becomes {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	result := make(map[string]any)

	for key, value := range m {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			// Recursively flatten nested maps
			for k, v := range flattenMap(nested, fullKey) {
				result[k] = v
			}
		} else {
			result[fullKey] = value
		}
	}

	return result
}

// unflattenMap is the inverse of flattenMap.
func unflattenMap(flat map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := result
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = values.Persistable(value)
	}
	return result
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
