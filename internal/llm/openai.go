package llm

import (
	"context"
	"log"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator answers prompts through an OpenAI-compatible chat API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewOpenAI(apiKey, baseURL, model, referrer, title string) *OpenAIGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	// Inject optional headers (useful for OpenRouter)
	if referrer != "" || title != "" {
		h := http.Header{}
		if referrer != "" {
			h.Set("HTTP-Referer", referrer)
		}
		if title != "" {
			h.Set("X-Title", title)
		}
		config.HTTPClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}
	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, maxNewTokens, numSequences int) string {
	if numSequences <= 0 {
		numSequences = 1
	}
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		Messages:  []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: prompt}},
		MaxTokens: maxNewTokens,
		N:         numSequences,
	})
	if err != nil {
		log.Printf("❌ openai completion failed for model %s: %v", g.model, err)
		return FallbackText
	}
	if len(resp.Choices) == 0 {
		log.Printf("❌ openai returned no choices for model %s", g.model)
		return FallbackText
	}
	return prompt + resp.Choices[0].Message.Content
}
