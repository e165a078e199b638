package config

// AssistantProvider selects the optional LLM fallback behind the scripted assistant.
type AssistantProvider string

const (
	AssistantNone   AssistantProvider = "none"
	AssistantOpenAI AssistantProvider = "openai"
)

// EmbeddingProvider selects how glossary terms are embedded for similarity search.
type EmbeddingProvider string

const (
	EmbeddingLocal  EmbeddingProvider = "local"
	EmbeddingOpenAI EmbeddingProvider = "openai"
)

// Config is the top-level escapeplan configuration, corresponding to .escapeplan.yml.
type Config struct {
	Server     ServerConfig    `yaml:"server" koanf:"server"`
	DataDir    string          `yaml:"data_dir" koanf:"data_dir"`
	CatalogDir string          `yaml:"catalog_dir" koanf:"catalog_dir"` // empty = embedded catalog
	LogLevel   string          `yaml:"log_level" koanf:"log_level"`
	Rewards    RewardsConfig   `yaml:"rewards" koanf:"rewards"`
	Assistant  AssistantConfig `yaml:"assistant" koanf:"assistant"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowAll       bool     `yaml:"allow_all" koanf:"allow_all"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" koanf:"rate_limit_rps"` // 0 disables
	RateLimitBurst int      `yaml:"rate_limit_burst" koanf:"rate_limit_burst"`
}

// RewardsConfig controls the glossary XP ledger and its backend reporting.
type RewardsConfig struct {
	GlossaryXP    int     `yaml:"glossary_xp" koanf:"glossary_xp"`
	ReportURL     string  `yaml:"report_url" koanf:"report_url"` // empty disables reporting
	ReportTimeout int     `yaml:"report_timeout_seconds" koanf:"report_timeout_seconds"`
	ReportQueue   int     `yaml:"report_queue" koanf:"report_queue"`
	ReportPerSec  float64 `yaml:"report_per_second" koanf:"report_per_second"`
}

// AssistantConfig configures the chat assistant and term similarity search.
type AssistantConfig struct {
	Provider          AssistantProvider `yaml:"provider" koanf:"provider"`
	Model             string            `yaml:"model" koanf:"model"`
	EmbeddingProvider EmbeddingProvider `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string            `yaml:"embedding_model" koanf:"embedding_model"`
	RequestsPerMinute int               `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}
