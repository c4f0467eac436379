package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies the AI service used for query processing and ranking.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// AllAIProviders returns the supported AI providers.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// EngineSettings holds the search engine's tunables.
type EngineSettings struct {
	// IdentityAnchor is the provider a user must have connected.
	IdentityAnchor ProviderID

	// AdapterTimeout bounds each provider call.
	AdapterTimeout time.Duration
	// OverallDeadline bounds the whole fan-out.
	OverallDeadline time.Duration
	// QueryTimeout bounds the AI query processing call.
	QueryTimeout time.Duration
	// RankTimeout bounds the AI ranking call.
	RankTimeout time.Duration
	// StoreTimeout bounds the credential store read.
	StoreTimeout time.Duration

	// MaxConcurrency caps simultaneous provider calls. Zero means unbounded.
	MaxConcurrency int
	// MaxRankCandidates caps how many results are sent to the ranker.
	MaxRankCandidates int
	// ResultsPerProvider is the page size requested from each provider.
	ResultsPerProvider int
	// AnalyticsQueueSize bounds the analytics side channel.
	AnalyticsQueueSize int
	// RecentSearches is how many past queries are sent as AI context.
	RecentSearches int

	// Health configures provider health transitions.
	Health HealthThresholds
}

// DefaultEngineSettings returns settings with sensible defaults.
func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		IdentityAnchor:     ProviderGmail,
		AdapterTimeout:     8 * time.Second,
		OverallDeadline:    12 * time.Second,
		QueryTimeout:       3 * time.Second,
		RankTimeout:        4 * time.Second,
		StoreTimeout:       2 * time.Second,
		MaxConcurrency:     16,
		MaxRankCandidates:  50,
		ResultsPerProvider: 10,
		AnalyticsQueueSize: 256,
		RecentSearches:     5,
		Health:             DefaultHealthThresholds(),
	}
}

// Validate checks the settings are usable.
func (s EngineSettings) Validate() error {
	if !s.IdentityAnchor.IsValid() {
		return fmt.Errorf("%w: identity anchor %q", ErrUnknownProvider, s.IdentityAnchor)
	}
	for name, d := range map[string]time.Duration{
		"adapter_timeout":  s.AdapterTimeout,
		"overall_deadline": s.OverallDeadline,
		"query_timeout":    s.QueryTimeout,
		"rank_timeout":     s.RankTimeout,
		"store_timeout":    s.StoreTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, name)
		}
	}
	if s.MaxConcurrency < 0 || s.MaxRankCandidates < 1 || s.ResultsPerProvider < 1 {
		return fmt.Errorf("%w: limits must be positive", ErrInvalidInput)
	}
	return s.Health.Validate()
}
