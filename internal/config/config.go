package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/escape-plan/internal/logging"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "ESCAPEPLAN_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ESCAPEPLAN_*). A double underscore
// separates nested keys: ESCAPEPLAN_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validAssistantProviders = map[AssistantProvider]bool{
	AssistantNone:   true,
	AssistantOpenAI: true,
}

var validEmbeddingProviders = map[EmbeddingProvider]bool{
	EmbeddingLocal:  true,
	EmbeddingOpenAI: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("server.rate_limit_rps must be non-negative")
	}
	if c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("server.rate_limit_burst must be non-negative")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.Rewards.GlossaryXP < 0 {
		return fmt.Errorf("rewards.glossary_xp must be non-negative")
	}
	if c.Rewards.ReportQueue < 0 {
		return fmt.Errorf("rewards.report_queue must be non-negative")
	}
	if c.Rewards.ReportPerSec < 0 {
		return fmt.Errorf("rewards.report_per_second must be non-negative")
	}

	if c.Assistant.Provider != "" && !validAssistantProviders[c.Assistant.Provider] {
		return fmt.Errorf("invalid assistant.provider %q: must be one of none, openai", c.Assistant.Provider)
	}
	if c.Assistant.EmbeddingProvider != "" && !validEmbeddingProviders[c.Assistant.EmbeddingProvider] {
		return fmt.Errorf("invalid assistant.embedding_provider %q: must be one of local, openai", c.Assistant.EmbeddingProvider)
	}
	if c.Assistant.RequestsPerMinute < 0 {
		return fmt.Errorf("assistant.requests_per_minute must be non-negative")
	}

	return nil
}

// APIKeyEnvVar returns the environment variable holding the API key for
// the assistant provider, or "" when none is needed.
func APIKeyEnvVar(provider AssistantProvider) string {
	switch provider {
	case AssistantOpenAI:
		return "OPENAI_API_KEY"
	default:
		return ""
	}
}

// NeedsOpenAIKey reports whether any configured component talks to OpenAI.
func (c *Config) NeedsOpenAIKey() bool {
	return c.Assistant.Provider == AssistantOpenAI || c.Assistant.EmbeddingProvider == EmbeddingOpenAI
}
