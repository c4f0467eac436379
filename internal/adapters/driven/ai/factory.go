// Package ai builds the AI service behind query processing and ranking:
// an LLM adapter chosen by settings, a JSON prompt protocol on top of it,
// and a circuit breaker around both.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	// AIService is nil when no provider is configured or the provider is
	// unreachable; the engine then runs without AI.
	AIService driven.AIService
	Warnings  []string // Non-fatal issues that caused fallback.
	FellBack  bool     // True if AI was configured but could not be used.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates and validates the configured LLM and wraps it in the AI
// service and breaker. Failures are reported as warnings, never as errors,
// because search works without AI.
func Init(settings *domain.LLMSettings, prompts driven.PromptStore, breaker BreakerSettings) *InitResult {
	result := &InitResult{}
	if settings == nil || settings.Provider == "" {
		return result
	}

	llm, err := CreateAndValidateLLMService(settings)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		logger.Warn("AI disabled: %v", err)
		return result
	}
	if llm == nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("AI provider %q is not fully configured", settings.Provider))
		result.FellBack = true
		return result
	}

	result.LLMService = llm
	result.AIService = NewBreakerService(NewService(llm, prompts), breaker)
	logger.Info("AI enabled: %s (%s)", settings.Provider.Description(), llm.ModelName())
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAIUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Check the [ai] section of config.toml",
			domain.ErrAIUnavailable, err)
	}
	return svc, nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
