package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// LlamaServerClient talks to a llama.cpp server /completion endpoint.
// Decoding is fully deterministic: temperature 0, bounded output, fixed stop
// sequence.
type LlamaServerClient struct {
	baseURL    string
	maxTokens  int
	stop       []string
	httpClient *http.Client
}

func NewLlamaServerClient(cfg Config) *LlamaServerClient {
	baseURL := strings.TrimRight(cfg.Endpoint, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8088"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 256
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LlamaServerClient{
		baseURL:   baseURL,
		maxTokens: maxTokens,
		stop:      []string{"</s>"},
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type completionRequest struct {
	Prompt      string   `json:"prompt"`
	NPredict    int      `json:"n_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
	CachePrompt bool     `json:"cache_prompt"`
}

type completionResponse struct {
	Content string `json:"content"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *LlamaServerClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

func (c *LlamaServerClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:      formatInstPrompt(systemPrompt, userPrompt),
		NPredict:    c.maxTokens,
		Temperature: 0,
		Stop:        c.stop,
		CachePrompt: true,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/completion", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("llama server request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llama server status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("llama server error: %s", out.Error.Message)
	}
	return strings.TrimSpace(out.Content), nil
}

// formatInstPrompt renders the Mistral/Llama instruction format.
func formatInstPrompt(systemPrompt, userPrompt string) string {
	if systemPrompt == "" {
		return fmt.Sprintf("<s>[INST] %s [/INST]", userPrompt)
	}
	return fmt.Sprintf("<s>[INST] <<SYS>>\n%s\n<</SYS>>\n\n%s\n[/INST]", systemPrompt, userPrompt)
}

var _ ports.LLMClient = (*LlamaServerClient)(nil)
