package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Mathieu1704/icare-mvp/internal/adapters/llm"
	"github.com/Mathieu1704/icare-mvp/internal/domain"
)

const (
	StrategyPattern = "pattern"
	StrategyLLM     = "llm"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Postgres PostgresConfig `yaml:"postgres"`
	Chat     ChatConfig     `yaml:"chat"`
	Intent   IntentConfig   `yaml:"intent"`
	LLM      LLMConfig      `yaml:"llm"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type PostgresConfig struct {
	ConnString   string        `yaml:"conn_string"`
	Table        string        `yaml:"table"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

type ChatConfig struct {
	DefaultOrganization string `yaml:"default_organization"`
	StalenessDays       int    `yaml:"staleness_days"`
	DefaultLocale       string `yaml:"default_locale"`
	StrictExtraction    bool   `yaml:"strict_extraction"`
}

type IntentConfig struct {
	Strategy string `yaml:"strategy"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Endpoint    string        `yaml:"endpoint"`
	Model       string        `yaml:"model"`
	ContextSize int           `yaml:"context_size"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	APIKey      string        `yaml:"api_key"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides honors the deployment environment variables, so
// containerized installs need no config file edits.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.ConnString = v
	}
	if v := os.Getenv("JOURS_SEUIL"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.Chat.StalenessDays = days
		}
	}
	if v := os.Getenv("LLM_ENDPOINT"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Postgres.Table == "" {
		c.Postgres.Table = "sensors"
	}
	if c.Postgres.QueryTimeout == 0 {
		c.Postgres.QueryTimeout = time.Second
	}
	if c.Chat.DefaultOrganization == "" {
		c.Chat.DefaultOrganization = "icare_mons"
	}
	if c.Chat.StalenessDays == 0 {
		c.Chat.StalenessDays = 2
	}
	if c.Chat.DefaultLocale == "" {
		c.Chat.DefaultLocale = string(domain.LocaleFR)
	}
	if c.Intent.Strategy == "" {
		c.Intent.Strategy = StrategyPattern
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = llm.ProviderLlamaCPP
	}
	if c.LLM.Endpoint == "" {
		c.LLM.Endpoint = "http://localhost:8088"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "mistral-7b-instruct"
	}
	if c.LLM.ContextSize == 0 {
		c.LLM.ContextSize = 4096
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 256
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Second
	}
}

func (c *Config) validate() error {
	if c.Postgres.ConnString == "" {
		return fmt.Errorf("postgres.conn_string is required")
	}
	if c.Chat.StalenessDays <= 0 {
		return fmt.Errorf("chat.staleness_days must be > 0")
	}
	switch c.Chat.DefaultLocale {
	case string(domain.LocaleFR), string(domain.LocaleEN):
	default:
		return fmt.Errorf("chat.default_locale must be %q or %q", domain.LocaleFR, domain.LocaleEN)
	}
	switch c.Intent.Strategy {
	case StrategyPattern, StrategyLLM:
	default:
		return fmt.Errorf("intent.strategy must be %q or %q", StrategyPattern, StrategyLLM)
	}
	if c.Intent.Strategy == StrategyLLM {
		switch c.LLM.Provider {
		case llm.ProviderLlamaCPP:
			if c.LLM.Endpoint == "" {
				return fmt.Errorf("llm.endpoint is required for the %s provider", llm.ProviderLlamaCPP)
			}
		case llm.ProviderGemini:
		default:
			return fmt.Errorf("llm.provider must be %q or %q", llm.ProviderLlamaCPP, llm.ProviderGemini)
		}
	}
	return nil
}

// StalenessThreshold converts the configured day count into a duration.
func (c *ChatConfig) StalenessThreshold() time.Duration {
	return time.Duration(c.StalenessDays) * 24 * time.Hour
}

// ClientConfig maps the YAML block onto the llm adapter's config.
func (c *LLMConfig) ClientConfig() llm.Config {
	return llm.Config{
		Provider:    c.Provider,
		Endpoint:    c.Endpoint,
		Model:       c.Model,
		ContextSize: c.ContextSize,
		MaxTokens:   c.MaxTokens,
		Timeout:     c.Timeout,
		APIKey:      c.APIKey,
	}
}
