package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxQueryLength is the maximum query length in characters.
const MaxQueryLength = 500

// SearchRequest is one inbound query.
type SearchRequest struct {
	Query          string `json:"query"`
	UserID         string `json:"userId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty"`
	RequestID      string `json:"-"`
}

// Validate checks the request before any provider is touched.
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrInvalidQuery
	}
	if n := utf8.RuneCountInString(r.Query); n > MaxQueryLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrQueryTooLong, n, MaxQueryLength)
	}
	if r.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}

// Intent is the AI classification of a query.
type Intent struct {
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// ProcessedQuery is the output of query processing.
// Intent is nil when the AI step failed or was skipped.
type ProcessedQuery struct {
	Query     string  `json:"processedQuery"`
	Intent    *Intent `json:"intent,omitempty"`
	Rewritten bool    `json:"rewritten"`
}

// QueryContext is the lightweight context sent to the AI with a query.
type QueryContext struct {
	UserID          string       `json:"userId"`
	OrganizationID  string       `json:"organizationId,omitempty"`
	RecentSearches  []string     `json:"recentSearches,omitempty"`
	ActiveProviders []ProviderID `json:"activeProviders"`
}

// SearchRequestContext carries one request through the pipeline.
// It is created at request entry and discarded when the response is built.
type SearchRequestContext struct {
	RawQuery       string
	Processed      ProcessedQuery
	UserID         string
	OrganizationID string
	RequestID      string
	Providers      []ProviderID
	StartedAt      time.Time
}

// ProviderFailure records one provider that did not contribute results.
type ProviderFailure struct {
	Provider ProviderID         `json:"provider"`
	Class    ProviderErrorClass `json:"class"`
	Message  string             `json:"message"`
	TimedOut bool               `json:"timedOut"`
}

// QueryMetadata describes how the query was handled.
type QueryMetadata struct {
	Original  string       `json:"original"`
	Processed string       `json:"processed"`
	Intent    *Intent      `json:"intent,omitempty"`
	Providers []ProviderID `json:"providers"`
	// Ranked is false when the AI ranking step failed and the fallback order was used.
	Ranked bool `json:"ranked"`
}

// SearchResponse is the envelope returned for a query.
type SearchResponse struct {
	Success          bool              `json:"success"`
	Data             []RankedResult    `json:"data"`
	TotalCount       int               `json:"totalCount"`
	ProcessingTimeMs int64             `json:"processingTimeMs"`
	Query            QueryMetadata     `json:"query"`
	Failures         []ProviderFailure `json:"failures,omitempty"`
	RequestID        string            `json:"requestId"`
}

// ErrorEnvelope is the body returned for request-level errors.
type ErrorEnvelope struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// NewErrorEnvelope builds an error envelope for err.
func NewErrorEnvelope(err error, now time.Time) ErrorEnvelope {
	return ErrorEnvelope{
		Error:     err.Error(),
		Code:      ErrorCode(err),
		Timestamp: now.UTC(),
	}
}

// SearchEvent is the analytics record of one completed search.
type SearchEvent struct {
	RequestID      string
	UserID         string
	OrganizationID string
	Query          string
	ProcessedQuery string
	ResultCount    int
	FailedCount    int
	DurationMs     int64
	CreatedAt      time.Time
}
