package domain

import (
	"fmt"
	"time"
)

// RawResult is one item as returned by a provider, before normalisation.
// Fields holds the provider-native shape; adapters flatten what they need
// into it and projections read it back out.
type RawResult struct {
	// Provider that produced the item.
	Provider ProviderID
	// Fields is the provider-native payload.
	Fields map[string]any
}

// NewRawResult creates a raw result with an empty field map.
func NewRawResult(p ProviderID) RawResult {
	return RawResult{Provider: p, Fields: make(map[string]any)}
}

// Set stores a field and returns the result for chaining.
func (r RawResult) Set(key string, value any) RawResult {
	if r.Fields == nil {
		r.Fields = make(map[string]any)
	}
	r.Fields[key] = value
	return r
}

// Text returns a string field. Non-string scalars are formatted.
func (r RawResult) Text(key string) string {
	v, ok := r.Fields[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int64, float64, bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}

// Time returns a time field. Accepts time.Time, *time.Time and RFC 3339 strings.
func (r RawResult) Time(key string) *time.Time {
	switch t := r.Fields[key].(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
	case int64:
		ts := time.UnixMilli(t)
		return &ts
	}
	return nil
}

// Strings returns a string slice field.
func (r RawResult) Strings(key string) []string {
	switch t := r.Fields[key].(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Float returns a numeric field as float64.
func (r RawResult) Float(key string) (float64, bool) {
	switch t := r.Fields[key].(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	}
	return 0, false
}

// ProviderResults groups the raw results returned by one provider.
type ProviderResults struct {
	Provider ProviderID
	Results  []RawResult
	Duration time.Duration
}

// NormalizedResult is a provider-independent search hit.
// ID is unique within one response.
type NormalizedResult struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Source     ProviderID     `json:"source"`
	URL        string         `json:"url"`
	CreatedAt  *time.Time     `json:"createdAt,omitempty"`
	Author     string         `json:"author"`
	Tags       []string       `json:"tags,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// RankedResult is a normalised result with its relevance and position.
// Rank positions are dense, 0-based and ordered by descending score.
type RankedResult struct {
	NormalizedResult
	Score float64 `json:"relevanceScore"`
	Rank  int     `json:"rank"`
}
