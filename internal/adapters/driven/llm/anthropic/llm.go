// Package anthropic implements driven.LLMService on the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultTimeout   = 30 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"

	// The Messages API has no JSON mode, so JSON requests get this appended
	// to the system prompt.
	jsonInstruction = "Respond with a single JSON object and nothing else."
)

// Config configures the service. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService talks to the Messages API.
type LLMService struct {
	api   *llmhttp.Client
	model string
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// NewLLMService validates cfg and fills in defaults.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	api := llmhttp.New("anthropic", cfg.BaseURL, cfg.Timeout)
	api.SetHeader("x-api-key", cfg.APIKey)
	api.SetHeader("anthropic-version", anthropicVersion)
	api.ErrorMessage = errorMessage
	return &LLMService{api: api, model: cfg.Model}, nil
}

// Chat sends the conversation. System turns move to the request's system
// field because the Messages API rejects them inline.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := messagesRequest{
		Model:       s.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: max(opts.Temperature, 0),
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = DefaultMaxTokens
	}

	var system []string
	for _, m := range messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		req.Messages = append(req.Messages, message{Role: m.Role, Content: m.Content})
	}
	if opts.JSON {
		system = append(system, jsonInstruction)
	}
	req.System = strings.Join(system, "\n\n")

	var resp messagesResponse
	if err := s.api.Do(ctx, http.MethodPost, "/v1/messages", req, &resp); err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("anthropic: no response content returned")
	}
	return text.String(), nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists models, which checks the key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodGet, "/v1/models", nil, nil)
}

func (s *LLMService) Close() error { return nil }

func errorMessage(body []byte) string {
	var e struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) != nil || e.Error.Message == "" {
		return ""
	}
	return e.Error.Type + ": " + e.Error.Message
}
