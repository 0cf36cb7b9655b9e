package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

const (
	ProviderLlamaCPP = "llamacpp"
	ProviderGemini   = "gemini"
)

// Config captures the runtime details for whichever completion backend is
// selected.
type Config struct {
	Provider    string
	Endpoint    string
	Model       string
	ContextSize int
	MaxTokens   int
	Timeout     time.Duration
	APIKey      string
}

// NewClient builds the configured completion backend.
func NewClient(ctx context.Context, cfg Config) (ports.LLMClient, error) {
	switch cfg.Provider {
	case "", ProviderLlamaCPP:
		return NewLlamaServerClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
