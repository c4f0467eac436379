package driven

// PromptStore serves the system prompts the AI service sends.
type PromptStore interface {
	// Load returns the current text of the named prompt.
	Load(name string) (string, error)
	// Reload drops cached prompts so the next Load reads them again.
	Reload()
}

// Prompt names. Both are plain system prompts without placeholders.
const (
	PromptQueryProcess = "query_process"
	PromptRankResults  = "rank_results"
)
