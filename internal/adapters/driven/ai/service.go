package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.AIService = (*Service)(nil)

const (
	processMaxTokens = 256
	rankMaxTokens    = 2048

	// candidateContentLimit keeps the ranking payload small.
	candidateContentLimit = 300
)

// Service implements driven.AIService on top of an LLM chat model.
// Prompts are system messages; the request payload is sent as a JSON user
// message and the model must answer with a single JSON object.
type Service struct {
	llm     driven.LLMService
	prompts driven.PromptStore
}

// NewService creates an AI service. Both arguments are required.
func NewService(llm driven.LLMService, prompts driven.PromptStore) *Service {
	return &Service{llm: llm, prompts: prompts}
}

type processPayload struct {
	Query   string              `json:"query"`
	Context domain.QueryContext `json:"context"`
}

type processReply struct {
	ProcessedQuery string         `json:"processedQuery"`
	Intent         *domain.Intent `json:"intent"`
}

// ProcessQuery asks the model to rewrite and classify query.
func (s *Service) ProcessQuery(
	ctx context.Context, query string, qctx domain.QueryContext,
) (*domain.ProcessedQuery, error) {
	var reply processReply
	if err := s.ask(ctx, driven.PromptQueryProcess, processPayload{Query: query, Context: qctx},
		processMaxTokens, &reply); err != nil {
		return nil, err
	}

	processed := strings.TrimSpace(reply.ProcessedQuery)
	if processed == "" {
		return nil, fmt.Errorf("%w: empty processedQuery", domain.ErrMalformedAIResponse)
	}
	intent := reply.Intent
	if intent != nil && intent.Type == "" && intent.Category == "" {
		intent = nil
	}
	return &domain.ProcessedQuery{
		Query:     processed,
		Intent:    intent,
		Rewritten: processed != strings.TrimSpace(query),
	}, nil
}

type rankCandidate struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Source    string `json:"source"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type rankPayload struct {
	Query      string          `json:"query"`
	Intent     *domain.Intent  `json:"intent"`
	Candidates []rankCandidate `json:"candidates"`
}

type rankReply struct {
	Scores []struct {
		ID    string   `json:"id"`
		Score *float64 `json:"score"`
	} `json:"scores"`
}

// RankResults asks the model to score candidates. Ids the model invents
// are dropped; a reply that scores none of the candidates is malformed.
func (s *Service) RankResults(
	ctx context.Context, query string, candidates []domain.NormalizedResult, intent *domain.Intent,
) (map[string]float64, error) {
	if len(candidates) == 0 {
		return map[string]float64{}, nil
	}

	payload := rankPayload{Query: query, Intent: intent, Candidates: make([]rankCandidate, len(candidates))}
	known := make(map[string]bool, len(candidates))
	for i, c := range candidates {
		known[c.ID] = true
		payload.Candidates[i] = rankCandidate{
			ID:      c.ID,
			Title:   c.Title,
			Content: truncate(c.Content, candidateContentLimit),
			Source:  string(c.Source),
		}
		if c.CreatedAt != nil {
			payload.Candidates[i].CreatedAt = c.CreatedAt.UTC().Format(time.RFC3339)
		}
	}

	var reply rankReply
	if err := s.ask(ctx, driven.PromptRankResults, payload, rankMaxTokens, &reply); err != nil {
		return nil, err
	}

	scores := make(map[string]float64, len(reply.Scores))
	for _, sc := range reply.Scores {
		if !known[sc.ID] || sc.Score == nil {
			continue
		}
		scores[sc.ID] = *sc.Score
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: no candidate was scored", domain.ErrMalformedAIResponse)
	}
	logger.Debug("AI scored %d of %d candidates", len(scores), len(candidates))
	return scores, nil
}

// ask runs one JSON exchange with the model and decodes the reply into out.
func (s *Service) ask(ctx context.Context, prompt string, payload any, maxTokens int, out any) error {
	system, err := s.prompts.Load(prompt)
	if err != nil {
		return fmt.Errorf("%w: loading prompt %s: %w", domain.ErrAIUnavailable, prompt, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", prompt, err)
	}

	reply, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: string(body)},
	}, driven.ChatOptions{MaxTokens: maxTokens, JSON: true})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrAIUnavailable, s.llm.ModelName(), err)
	}

	object, ok := extractJSON(reply)
	if !ok {
		return fmt.Errorf("%w: no JSON object in reply", domain.ErrMalformedAIResponse)
	}
	if err := json.Unmarshal([]byte(object), out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedAIResponse, err)
	}
	return nil
}

// extractJSON returns the outermost JSON object in s. Models sometimes wrap
// their answer in prose or a fenced code block.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// IsAIError reports whether err came from the AI layer rather than a bug.
func IsAIError(err error) bool {
	return errors.Is(err, domain.ErrAIUnavailable) || errors.Is(err, domain.ErrMalformedAIResponse)
}
