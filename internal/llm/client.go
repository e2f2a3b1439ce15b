package llm

import (
	"context"

	"lily/internal/inference"
)

// Generator continues a prompt. The returned text starts with the prompt, the
// shape the hosted text-generation endpoint produces, so callers can strip it
// the same way whatever backend is configured.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxNewTokens, numSequences int) string
}

// FallbackText is returned when a backend fails.
const FallbackText = inference.GenerationFallback
