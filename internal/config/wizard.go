package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard, saves the result to
// path and returns it.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to escapeplan! Let's configure your service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Port.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 2. CORS origins.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed CORS origins (comma-separated, * for any)",
		Default: strings.Join(cfg.Server.AllowedOrigins, ","),
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	origins := splitAndTrim(originsStr)
	if len(origins) == 1 && origins[0] == "*" {
		cfg.Server.AllowAll = true
	} else if len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}

	// 3. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the SQLite database",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 4. Catalog directory.
	catalogPrompt := promptui.Prompt{
		Label:   "Catalog directory (leave blank for the built-in catalog)",
		Default: "",
	}
	if cfg.CatalogDir, err = catalogPrompt.Run(); err != nil {
		return nil, fmt.Errorf("catalog dir: %w", err)
	}

	// 5. Assistant fallback.
	assistantPrompt := promptui.Select{
		Label: "Assistant fallback for unmatched questions",
		Items: []string{
			"none   - scripted answers only",
			"openai - forward unmatched questions to an OpenAI model",
		},
	}
	idx, _, err := assistantPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("assistant selection: %w", err)
	}
	providers := []AssistantProvider{AssistantNone, AssistantOpenAI}
	cfg.Assistant.Provider = providers[idx]
	if cfg.Assistant.Provider == AssistantOpenAI {
		cfg.Assistant.EmbeddingProvider = EmbeddingOpenAI
	}

	// 6. Reward reporting endpoint.
	reportPrompt := promptui.Prompt{
		Label:   "XP reporting endpoint (leave blank to disable)",
		Default: "",
	}
	if cfg.Rewards.ReportURL, err = reportPrompt.Run(); err != nil {
		return nil, fmt.Errorf("report url: %w", err)
	}
	cfg.Rewards.ReportURL = strings.TrimSpace(cfg.Rewards.ReportURL)

	if envVar := APIKeyEnvVar(cfg.Assistant.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("\nNote: Set %s in your environment before running escapeplan serve.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validatePort(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 0 || n > 65535 {
		return fmt.Errorf("port must be between 0 and 65535")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
