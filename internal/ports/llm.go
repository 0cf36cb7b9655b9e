package ports

import "context"

// LLMClient is the minimal completion surface the model-based extractor needs.
// Implementations perform a single synchronous inference call with
// deterministic decoding; any retry or rate limiting is theirs to own.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
