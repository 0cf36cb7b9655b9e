package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

const systemPrompt = `You are an extraction agent that converts a user request about IoT sensors into a JSON payload. Supported JSON schema:
{
  "intent": string,   // one of 'check_connectivity', 'list_disconnected', 'unknown'
  "company": string|null // company name mentioned by the user
}
Return ONLY the JSON, without additional text.`

// LLMExtractor delegates understanding to a language model and validates the
// JSON it returns. Output that cannot be coerced into an IntentResult yields
// a *ports.ExtractionError carrying a truncated snippet of the raw output.
type LLMExtractor struct {
	client  ports.LLMClient
	timeout time.Duration
}

func NewLLMExtractor(client ports.LLMClient, timeout time.Duration) *LLMExtractor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LLMExtractor{client: client, timeout: timeout}
}

func (e *LLMExtractor) Name() string { return "llm" }

func (e *LLMExtractor) Extract(ctx context.Context, message string) (domain.IntentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.client.CompleteWithSystem(ctx, systemPrompt, message)
	if err != nil {
		return domain.IntentResult{Intent: domain.IntentUnknown}, fmt.Errorf("model completion: %w", err)
	}
	return parsePayload(raw)
}

// payload mirrors the JSON contract given to the model. Pointers distinguish
// absent fields from empty ones.
type payload struct {
	Intent  *string `json:"intent"`
	Company *string `json:"company"`
}

func parsePayload(raw string) (domain.IntentResult, error) {
	unknown := domain.IntentResult{Intent: domain.IntentUnknown}

	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return unknown, ports.NewExtractionError("no JSON object in model output", raw)
	}

	var p payload
	if err := json.Unmarshal([]byte(jsonStr), &p); err != nil {
		return unknown, ports.NewExtractionError(fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	result := domain.IntentResult{Intent: domain.IntentUnknown}
	if p.Intent != nil {
		result.Intent = domain.ParseIntent(*p.Intent)
	}
	if p.Company != nil {
		result.Organization = strings.TrimSpace(*p.Company)
	}
	return result, nil
}

// extractJSON finds the first balanced JSON object in the model output,
// tolerating markdown fences or prose around it.
func extractJSON(response string) string {
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	for i := start; i < len(response); i++ {
		switch response[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

var _ ports.IntentExtractor = (*LLMExtractor)(nil)
