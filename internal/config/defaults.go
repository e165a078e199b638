package config

// DefaultConfigFile is the config path used when --config is not given.
const DefaultConfigFile = ".escapeplan.yml"

// DefaultAllowedOrigins are the CORS origins accepted outside dev mode.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8001,
			AllowedOrigins: DefaultAllowedOrigins,
			RateLimitRPS:   20,
			RateLimitBurst: 40,
		},
		DataDir:  ".escapeplan",
		LogLevel: "info",
		Rewards: RewardsConfig{
			GlossaryXP:    10,
			ReportTimeout: 5,
			ReportQueue:   64,
			ReportPerSec:  5,
		},
		Assistant: AssistantConfig{
			Provider:          AssistantNone,
			Model:             "gpt-4o-mini",
			EmbeddingProvider: EmbeddingLocal,
			EmbeddingModel:    "text-embedding-3-small",
			RequestsPerMinute: 30,
		},
	}
}
