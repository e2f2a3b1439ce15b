package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/Morwran/yagpt"
)

// YandexGenerator answers prompts through YandexGPT.
type YandexGenerator struct {
	ya       yagpt.YaGPTFace
	iamToken string
}

func NewYandex(oauthToken, folderID string) (*YandexGenerator, error) {
	// Create IAM token from OAuth token
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	resp, err := iam.Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create iam token: %w", err)
	}

	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}

	return &YandexGenerator{
		ya:       ya,
		iamToken: resp.IamToken,
	}, nil
}

// Generate ignores the token and sequence limits, yagpt exposes neither.
func (g *YandexGenerator) Generate(ctx context.Context, prompt string, _, _ int) string {
	messages := []yagpt.Message{{Role: "user", Content: prompt}}
	resp, err := g.ya.CompletionWithCtx(ctx, g.iamToken, messages)
	if err != nil {
		log.Printf("❌ yagpt completion failed: %v", err)
		return FallbackText
	}
	if resp == nil || len(resp.Alternatives) == 0 {
		log.Printf("❌ yagpt returned empty response")
		return FallbackText
	}
	return prompt + resp.Alternatives[0].Message.Content
}
