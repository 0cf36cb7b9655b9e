package ports

import (
	"context"
	"fmt"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
)

// IntentExtractor turns a raw utterance into a structured IntentResult.
// Implementations must be safe for concurrent use.
type IntentExtractor interface {
	Extract(ctx context.Context, message string) (domain.IntentResult, error)
	Name() string
}

// SnippetLimit caps how much raw model output an ExtractionError carries.
const SnippetLimit = 200

// ExtractionError reports model output that could not be coerced into an
// IntentResult. Snippet holds at most SnippetLimit bytes of the offending
// output for diagnostics.
type ExtractionError struct {
	Reason  string
	Snippet string
}

func (e *ExtractionError) Error() string {
	if e.Snippet == "" {
		return fmt.Sprintf("intent extraction failed: %s", e.Reason)
	}
	return fmt.Sprintf("intent extraction failed: %s; output was: %s...", e.Reason, e.Snippet)
}

// NewExtractionError builds an ExtractionError, truncating raw to SnippetLimit.
func NewExtractionError(reason, raw string) *ExtractionError {
	if len(raw) > SnippetLimit {
		raw = raw[:SnippetLimit]
	}
	return &ExtractionError{Reason: reason, Snippet: raw}
}
