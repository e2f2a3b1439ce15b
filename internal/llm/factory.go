package llm

import (
	"fmt"
	"strings"

	"lily/internal/config"
	"lily/internal/inference"
)

// NewGenerator builds the text generation backend named by
// cfg.GenerationProvider. The hosted endpoint goes through caller, so it
// shares the bearer token and the absence handling of the classifiers.
func NewGenerator(cfg *config.Config, caller inference.Caller) (Generator, error) {
	switch config.GenerationProvider(strings.ToLower(string(cfg.GenerationProvider))) {
	case config.ProviderHuggingFace, "":
		return inference.NewTextGenerator(caller, cfg.GenerationURL), nil
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for provider %s", cfg.GenerationProvider)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.OpenRouterReferrer, cfg.OpenRouterTitle), nil
	case config.ProviderYandex:
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.GenerationProvider)
	}
}
