package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port 8001, got %d", cfg.Server.Port)
	}
	if cfg.Rewards.GlossaryXP != 10 {
		t.Errorf("expected default glossary_xp 10, got %d", cfg.Rewards.GlossaryXP)
	}
	if cfg.Assistant.Provider != AssistantNone {
		t.Errorf("expected default assistant provider %q, got %q", AssistantNone, cfg.Assistant.Provider)
	}
	if cfg.DataDir != ".escapeplan" {
		t.Errorf("expected default data_dir %q, got %q", ".escapeplan", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.escapeplan.yml")

	original := DefaultConfig()
	original.Server.Port = 9090
	original.Server.AllowedOrigins = []string{"https://escape.example"}
	original.DataDir = "var/db"
	original.CatalogDir = "catalog"
	original.Rewards.ReportURL = "https://legacy.example/api/users/xp/glossary"
	original.Assistant.Provider = AssistantOpenAI

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Server.Port != original.Server.Port {
		t.Errorf("port: got %d, want %d", loaded.Server.Port, original.Server.Port)
	}
	if loaded.DataDir != original.DataDir {
		t.Errorf("data_dir: got %q, want %q", loaded.DataDir, original.DataDir)
	}
	if loaded.CatalogDir != original.CatalogDir {
		t.Errorf("catalog_dir: got %q, want %q", loaded.CatalogDir, original.CatalogDir)
	}
	if loaded.Rewards.ReportURL != original.Rewards.ReportURL {
		t.Errorf("report_url: got %q, want %q", loaded.Rewards.ReportURL, original.Rewards.ReportURL)
	}
	if loaded.Assistant.Provider != original.Assistant.Provider {
		t.Errorf("assistant.provider: got %q, want %q", loaded.Assistant.Provider, original.Assistant.Provider)
	}
	if len(loaded.Server.AllowedOrigins) != 1 || loaded.Server.AllowedOrigins[0] != "https://escape.example" {
		t.Errorf("allowed_origins: got %v", loaded.Server.AllowedOrigins)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8001 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("ESCAPEPLAN_LOG_LEVEL", "debug")
	t.Setenv("ESCAPEPLAN_SERVER__PORT", "7070")
	t.Setenv("ESCAPEPLAN_REWARDS__GLOSSARY_XP", "25")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("log_level override failed: got %q", loaded.LogLevel)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("server.port override failed: got %d", loaded.Server.Port)
	}
	if loaded.Rewards.GlossaryXP != 25 {
		t.Errorf("rewards.glossary_xp override failed: got %d", loaded.Rewards.GlossaryXP)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ESCAPEPLAN_LOG_LEVEL":              "log_level",
		"ESCAPEPLAN_SERVER__PORT":           "server.port",
		"ESCAPEPLAN_ASSISTANT__MODEL":       "assistant.model",
		"ESCAPEPLAN_REWARDS__REPORT_URL":    "rewards.report_url",
		"ESCAPEPLAN_SERVER__RATE_LIMIT_RPS": "server.rate_limit_rps",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative rps", func(c *Config) { c.Server.RateLimitRPS = -1 }, true},
		{"negative burst", func(c *Config) { c.Server.RateLimitBurst = -1 }, true},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"negative xp", func(c *Config) { c.Rewards.GlossaryXP = -10 }, true},
		{"negative queue", func(c *Config) { c.Rewards.ReportQueue = -1 }, true},
		{"unknown assistant", func(c *Config) { c.Assistant.Provider = "gemini" }, true},
		{"unknown embedder", func(c *Config) { c.Assistant.EmbeddingProvider = "cohere" }, true},
		{"openai assistant", func(c *Config) { c.Assistant.Provider = AssistantOpenAI }, false},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	if got := APIKeyEnvVar(AssistantOpenAI); got != "OPENAI_API_KEY" {
		t.Errorf("APIKeyEnvVar(openai) = %q", got)
	}
	if got := APIKeyEnvVar(AssistantNone); got != "" {
		t.Errorf("APIKeyEnvVar(none) = %q", got)
	}

	cfg := DefaultConfig()
	if cfg.NeedsOpenAIKey() {
		t.Error("default config should not need an OpenAI key")
	}
	cfg.Assistant.EmbeddingProvider = EmbeddingOpenAI
	if !cfg.NeedsOpenAIKey() {
		t.Error("openai embeddings should need an OpenAI key")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"http://localhost:*", []string{"http://localhost:*"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}

func TestValidatePort(t *testing.T) {
	if err := validatePort("8080"); err != nil {
		t.Errorf("validatePort(8080): %v", err)
	}
	if err := validatePort("http"); err == nil {
		t.Error("expected error for non-numeric port")
	}
	if err := validatePort("99999"); err == nil {
		t.Error("expected error for out-of-range port")
	}
}
