package icare

import (
	"github.com/Mathieu1704/icare-mvp/internal/app/config"
	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	ServerConfig   = config.ServerConfig
	PostgresConfig = config.PostgresConfig
	ChatConfig     = config.ChatConfig
	IntentConfig   = config.IntentConfig
	LLMConfig      = config.LLMConfig

	ChatRequest   = domain.ChatRequest
	ChatResponse  = domain.ChatResponse
	StatusSummary = domain.StatusSummary
	SensorRecord  = domain.SensorRecord
	Intent        = domain.Intent
	IntentResult  = domain.IntentResult
	Locale        = domain.Locale

	SensorStore     = ports.SensorStore
	IntentExtractor = ports.IntentExtractor
	LLMClient       = ports.LLMClient
	Observability   = ports.Observability
	Field           = ports.Field
	ExtractionError = ports.ExtractionError
)

const (
	IntentCheckConnectivity = domain.IntentCheckConnectivity
	IntentListDisconnected  = domain.IntentListDisconnected
	IntentUnknown           = domain.IntentUnknown

	LocaleFR = domain.LocaleFR
	LocaleEN = domain.LocaleEN
)

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
