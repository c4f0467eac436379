// Package ollama implements driven.LLMService on a local Ollama server.
package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 60 * time.Second
)

// LLMConfig configures the service. Ollama needs no API key.
type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService talks to Ollama's /api/chat.
type LLMService struct {
	api     *llmhttp.Client
	baseURL string
	model   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
	Options  *options      `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// NewLLMService fills in defaults for cfg.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	api := llmhttp.New("ollama", cfg.BaseURL, cfg.Timeout)
	api.ErrorMessage = errorMessage
	return &LLMService{api: api, baseURL: api.BaseURL(), model: cfg.Model}
}

// Chat sends the conversation without streaming. JSON requests set
// format=json, which constrains the model to valid JSON.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	req := chatRequest{Model: s.model, Messages: make([]chatMessage, 0, len(messages))}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}
	if opts.JSON {
		req.Format = "json"
	}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		req.Options = &options{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
	}

	var resp chatResponse
	if err := s.api.Do(ctx, http.MethodPost, "/api/chat", req, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", errors.New("ollama: " + resp.Error)
	}
	return resp.Message.Content, nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists local models via /api/tags.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Do(ctx, http.MethodGet, "/api/tags", nil, nil)
}

func (s *LLMService) Close() error { return nil }

func errorMessage(body []byte) string {
	var e chatResponse
	if json.Unmarshal(body, &e) != nil {
		return ""
	}
	return e.Error
}
