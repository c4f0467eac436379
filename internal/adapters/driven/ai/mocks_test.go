package ai

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// stubLLM returns canned replies in order and records the messages it saw.
type stubLLM struct {
	mu       sync.Mutex
	replies  []string
	err      error
	calls    int
	messages [][]driven.ChatMessage
	opts     []driven.ChatOptions
}

func (s *stubLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.messages = append(s.messages, messages)
	s.opts = append(s.opts, opts)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", errors.New("no reply queued")
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	return reply, nil
}

func (s *stubLLM) ModelName() string            { return "stub-model" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

type stubPrompts struct {
	prompts map[string]string
}

func newStubPrompts() *stubPrompts {
	return &stubPrompts{prompts: map[string]string{
		driven.PromptQueryProcess: "process system prompt",
		driven.PromptRankResults:  "rank system prompt",
	}}
}

func (p *stubPrompts) Load(name string) (string, error) {
	prompt, ok := p.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return prompt, nil
}

func (p *stubPrompts) Reload() {}

// stubAI is a driven.AIService that fails a configurable number of times.
type stubAI struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubAI) ProcessQuery(_ context.Context, query string, _ domain.QueryContext) (*domain.ProcessedQuery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &domain.ProcessedQuery{Query: query}, nil
}

func (s *stubAI) RankResults(
	_ context.Context, _ string, candidates []domain.NormalizedResult, _ *domain.Intent,
) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		out[c.ID] = 0.5
	}
	return out, nil
}
