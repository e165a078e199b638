package llm

import (
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// NewProvider creates the assistant's LLM provider. It returns nil for
// "none" or an empty provider type: the assistant then answers from its
// scripted handlers only. OPENAI_BASE_URL, when set, points the client at
// an OpenAI-compatible endpoint.
func NewProvider(providerType string, model string, rpm int) (Provider, error) {
	switch providerType {
	case "", "none":
		return nil, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
		}
		cfg := openai.DefaultConfig(apiKey)
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			cfg.BaseURL = base
		}
		return NewRateLimitedProvider(NewOpenAIProviderWithConfig(cfg, model), rpm), nil

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}
