package driven

import "time"

// ConfigStore reads and writes dot-separated configuration keys such as
// "engine.adapter_timeout". Typed getters return the zero value when the
// key is missing or cannot be converted.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	// GetDuration parses Go duration strings like "8s".
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string

	// Set changes a value in memory; Save persists it.
	Set(key string, value any) error
	// Delete removes key. A missing key is not an error.
	Delete(key string) error
	Save() error
	Load() error
	// Path is where Save writes. In-memory stores return ":memory:".
	Path() string
}
