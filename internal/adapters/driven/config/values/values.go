// Package values converts loosely typed configuration values into the
// types the config store getters return.
//
// Values arrive from TOML (int64, []any), from code (int, time.Duration)
// and from the environment (always strings). Every function takes the
// (value, found) pair returned by a map lookup and yields the zero value
// when the key is missing or cannot be converted.
package values

import (
	"strconv"
	"strings"
	"time"
)

// String returns v if it is a string.
func String(v any, ok bool) string {
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Int accepts any integer, a float or a decimal string.
func Int(v any, ok bool) int {
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Bool accepts a bool or anything strconv.ParseBool understands.
func Bool(v any, ok bool) bool {
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}

// Duration accepts a time.Duration, a Go duration string ("8s") or a
// whole number of seconds.
func Duration(v any, ok bool) time.Duration {
	if !ok {
		return 0
	}
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		parsed, err := time.ParseDuration(strings.TrimSpace(d))
		if err != nil {
			return 0
		}
		return parsed
	case int:
		return time.Duration(d) * time.Second
	case int64:
		return time.Duration(d) * time.Second
	default:
		return 0
	}
}

// StringSlice accepts []string or a []any of strings; other elements are
// dropped.
func StringSlice(v any, ok bool) []string {
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// SplitList parses a comma separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Persistable converts v into something TOML can encode. Durations become
// their string form.
func Persistable(v any) any {
	if d, ok := v.(time.Duration); ok {
		return d.String()
	}
	return v
}
