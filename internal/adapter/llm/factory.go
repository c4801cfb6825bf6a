package llm

import (
	"log/slog"

	"github.com/xiaot623/gogo/ibu/internal/config"
)

// NewCompleter picks the completion client for cfg. IBU_MODE=MOCK returns a
// MockClient; otherwise the real client is built from the OpenRouter settings.
func NewCompleter(cfg *config.Config, logger *slog.Logger) Completer {
	if cfg.MockMode() {
		logger.Info("IBU_MODE=MOCK detected, using mock completion client")
		return NewMockClient()
	}

	return NewClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.LLMTimeout,
		WithTemperature(cfg.LLMTemperature),
		WithMaxTokens(cfg.LLMMaxTokens),
	)
}
