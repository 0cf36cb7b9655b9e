package icare

import (
	base "github.com/Mathieu1704/icare-mvp/pkg/icare"
)

// Type aliases so consumers can import github.com/Mathieu1704/icare-mvp directly.
type (
	Config         = base.Config
	ServerConfig   = base.ServerConfig
	PostgresConfig = base.PostgresConfig
	ChatConfig     = base.ChatConfig
	IntentConfig   = base.IntentConfig
	LLMConfig      = base.LLMConfig

	Runtime       = base.Runtime
	RuntimeOption = base.RuntimeOption

	ChatRequest   = base.ChatRequest
	ChatResponse  = base.ChatResponse
	StatusSummary = base.StatusSummary
	SensorRecord  = base.SensorRecord
	Intent        = base.Intent
	IntentResult  = base.IntentResult
	Locale        = base.Locale

	SensorStore     = base.SensorStore
	IntentExtractor = base.IntentExtractor
	LLMClient       = base.LLMClient
	Observability   = base.Observability
	Field           = base.Field
	ExtractionError = base.ExtractionError
)

const (
	IntentCheckConnectivity = base.IntentCheckConnectivity
	IntentListDisconnected  = base.IntentListDisconnected
	IntentUnknown           = base.IntentUnknown

	LocaleFR = base.LocaleFR
	LocaleEN = base.LocaleEN
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Runtime helpers.
func Conf(path string, opts ...RuntimeOption) (*Runtime, error) {
	return base.Conf(path, opts...)
}

func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithStore(s SensorStore) RuntimeOption {
	return base.WithStore(s)
}

func WithExtractor(e IntentExtractor) RuntimeOption {
	return base.WithExtractor(e)
}

func WithLLMClient(c LLMClient) RuntimeOption {
	return base.WithLLMClient(c)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}
