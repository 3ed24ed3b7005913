package llm

import (
	"context"
	"fmt"

	"psychoreport/internal/config"
	"psychoreport/internal/domain"
	"psychoreport/internal/logger"

	"go.uber.org/zap"
)

// NewCompletionClient builds the client for the configured provider. When
// the provider needs a credential and none is set it returns (nil, nil):
// narratives are then skipped without error.
func NewCompletionClient(ctx context.Context, cfg config.LLMConfig) (domain.CompletionClient, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		if cfg.APIKey == "" {
			logger.Get().Warn("LLM API key is not set; AI analysis disabled", zap.String("provider", cfg.Provider))
			return nil, nil
		}
		c, err := NewOpenAIClient(cfg.APIKey, cfg.BaseURL, nil, DefaultCapabilities())
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderGemini:
		if cfg.APIKey == "" {
			logger.Get().Warn("LLM API key is not set; AI analysis disabled", zap.String("provider", cfg.Provider))
			return nil, nil
		}
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.ProviderOllama:
		c, err := NewOllamaClient(cfg.BaseURL, cfg.Model, nil)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}
