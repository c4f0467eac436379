package driven

import "context"

// LLMService is a chat-completion backend used for AI ranking.
// The openai, anthropic and ollama adapters implement it.
type LLMService interface {
	// Chat sends the conversation and returns the assistant reply.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)
	ModelName() string
	// Ping makes the cheapest call the backend offers to prove it answers.
	Ping(ctx context.Context) error
	Close() error
}

// ChatMessage is one turn. Role is "system", "user" or "assistant".
type ChatMessage struct {
	Role    string
	Content string
}

// ChatOptions tunes a single Chat call. Zero values leave the backend default.
type ChatOptions struct {
	MaxTokens   int
	Temperature float64
	// JSON requests a single JSON object reply where the backend supports it.
	JSON bool
}
