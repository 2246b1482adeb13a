package factory

import (
	"fmt"
	"time"

	"symptom-checker-be/pkg/llm"
	"symptom-checker-be/pkg/llm/ollama"
	"symptom-checker-be/pkg/llm/openai"
)

type Config struct {
	Provider string // "openai" or "ollama"
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewToolCaller(cfg Config) (llm.ToolCaller, error) {
	switch cfg.Provider {
	case "openai", "":
		return openai.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "ollama":
		return ollama.NewProvider(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
