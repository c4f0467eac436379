package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-federated/internal/logger"
)

var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore serves the AI prompts from user-editable files in one
// directory. A file edited on disk is picked up on the next Load; a missing
// or unreadable file falls back to the built-in prompt.
//
// Nothing touches the disk until the first Load.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

type cachedPrompt struct {
	text    string
	modTime time.Time
}

// promptPurpose describes each prompt in the generated README.
var promptPurpose = map[string]string{
	driven.PromptQueryProcess: "rewrites and classifies the query before providers are searched",
	driven.PromptRankResults:  "scores the merged results by relevance",
}

// defaultPrompts seed the prompt directory and answer when a file is missing.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQueryProcess: `You prepare search queries for a federated search across a user's connected services (mail, files, calendars, chat, issue trackers, accounting and construction management).

You receive a JSON object with the user's query and context:
{"query": "...", "context": {"recentSearches": [...], "activeProviders": [...]}}

Rewrite the query to improve recall: fix typos, expand abbreviations, drop filler words. Keep names, numbers and quoted phrases exactly. Do not add terms the user did not imply.

Classify the intent:
- type: one of "lookup", "navigation", "research", "action"
- category: the kind of content sought, e.g. "email", "document", "event", "message", "issue", "invoice", "project", "general"
- confidence: 0.0 to 1.0

Respond with ONLY this JSON object:
{"processedQuery": "...", "intent": {"type": "...", "category": "...", "confidence": 0.0}}`,

	driven.PromptRankResults: `You rank search results by relevance to a query.

You receive a JSON object:
{"query": "...", "intent": {...} or null, "candidates": [{"id": "...", "title": "...", "content": "...", "source": "...", "createdAt": "..."}]}

Score every candidate from 0.0 (irrelevant) to 1.0 (exactly what the user wants). Prefer results that match the intent category, then recent results when relevance is equal. Use each candidate id exactly as given.

Respond with ONLY this JSON object:
{"scores": [{"id": "...", "score": 0.0}]}`,
}

// NewPromptStore creates a prompt store rooted at dir, or ~/.sercha/prompts
// when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".sercha", "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named prompt.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, known := defaultPrompts[name]

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt directory unavailable: %w", s.seedErr)
	}

	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.cache[name]; ok && c.modTime.Equal(info.ModTime()) {
		return c.text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if known {
			return builtin, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" && known {
		logger.Warn("prompt %s is empty, using the built-in prompt", name)
		text = builtin
	}
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	return text, nil
}

// Reload drops every cached prompt.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]cachedPrompt)
	s.mu.Unlock()
}

// Reset overwrites the named prompt file with the built-in prompt.
func (s *PromptStore) Reset(name string) error {
	builtin, ok := defaultPrompts[name]
	if !ok {
		return fmt.Errorf("no built-in prompt %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	if err := os.WriteFile(s.path(name), []byte(builtin), 0o600); err != nil {
		return fmt.Errorf("reset prompt %q: %w", name, err)
	}
	s.mu.Lock()
	delete(s.cache, name)
	s.mu.Unlock()
	return nil
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// seed creates the directory and writes any prompt file that does not
// exist yet. Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	for name, text := range defaultPrompts {
		if err := writeIfMissing(s.path(name), text); err != nil {
			s.seedErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}
	if err := writeIfMissing(filepath.Join(s.dir, "README.md"), readme()); err != nil {
		s.seedErr = err
	}
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func readme() string {
	names := make([]string, 0, len(promptPurpose))
	for name := range promptPurpose {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("# Sercha Prompts\n\n")
	b.WriteString("System prompts used by the AI query processor and ranker.\n\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- `%s.txt`: %s\n", name, promptPurpose[name])
	}
	b.WriteString("\nEdits apply to the next search. Delete a file to restore its built-in version.\n")
	b.WriteString("Both prompts must keep their \"Respond with\" block: the engine expects a\n")
	b.WriteString("single JSON object back and otherwise falls back to the raw query and\n")
	b.WriteString("newest-first order.\n")
	return b.String()
}
