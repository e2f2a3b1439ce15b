package inference

import (
	"context"
	"strings"
)

// Sentiment is a coarse polarity label.
type Sentiment string

const (
	Positive Sentiment = "POSITIVE"
	Negative Sentiment = "NEGATIVE"
	Neutral  Sentiment = "NEUTRAL"
)

// UnknownLabel is returned by TopicClassifier when no label could be chosen.
const UnknownLabel = "UNKNOWN"

// GenerationFallback is returned by TextGenerator when generation fails.
const GenerationFallback = "I'm having trouble generating text right now."

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// SentimentClassifier labels text through a text-classification endpoint.
type SentimentClassifier struct {
	caller   Caller
	endpoint string
}

func NewSentimentClassifier(caller Caller, endpoint string) *SentimentClassifier {
	return &SentimentClassifier{caller: caller, endpoint: endpoint}
}

// ClassifySentiment returns the highest scoring label, or Neutral when the
// call failed or the response has an unexpected shape.
func (s *SentimentClassifier) ClassifySentiment(ctx context.Context, text string) Sentiment {
	res := s.caller.Call(ctx, s.endpoint, map[string]any{"inputs": text})
	pairs, ok := sentimentPairs(res)
	if !ok {
		return Neutral
	}
	best := pairs[0]
	for _, p := range pairs[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	if best.Label == "" {
		return Neutral
	}
	return Sentiment(strings.ToUpper(best.Label))
}

// sentimentPairs accepts both [[{label,score}...]] (one list per input) and a
// flat [{label,score}...].
func sentimentPairs(res Result) ([]labelScore, bool) {
	var nested [][]labelScore
	if res.Decode(&nested) && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], true
	}
	var flat []labelScore
	if res.Decode(&flat) && len(flat) > 0 {
		return flat, true
	}
	return nil, false
}

// TopicClassifier picks one of the caller's candidate labels through a
// zero-shot classification endpoint.
type TopicClassifier struct {
	caller   Caller
	endpoint string
}

func NewTopicClassifier(caller Caller, endpoint string) *TopicClassifier {
	return &TopicClassifier{caller: caller, endpoint: endpoint}
}

type zeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ClassifyTopic returns the first label of the response, which the service
// orders by descending score. UnknownLabel on any failure.
func (c *TopicClassifier) ClassifyTopic(ctx context.Context, text string, labels []string) string {
	res := c.caller.Call(ctx, c.endpoint, map[string]any{
		"inputs":     text,
		"parameters": map[string]any{"candidate_labels": labels},
	})
	var out zeroShotResponse
	if !res.Decode(&out) || out.Labels == nil || out.Scores == nil || len(out.Labels) == 0 {
		return UnknownLabel
	}
	return out.Labels[0]
}

// TextGenerator continues a prompt through a text-generation endpoint.
type TextGenerator struct {
	caller   Caller
	endpoint string
}

func NewTextGenerator(caller Caller, endpoint string) *TextGenerator {
	return &TextGenerator{caller: caller, endpoint: endpoint}
}

type generatedSequence struct {
	GeneratedText *string `json:"generated_text"`
}

// Generate returns the first generated sequence. The hosted endpoint echoes
// the prompt as a prefix of the text. On failure it returns GenerationFallback.
func (g *TextGenerator) Generate(ctx context.Context, prompt string, maxNewTokens, numSequences int) string {
	if numSequences <= 0 {
		numSequences = 1
	}
	res := g.caller.Call(ctx, g.endpoint, map[string]any{
		"inputs": prompt,
		"parameters": map[string]any{
			"max_new_tokens":       maxNewTokens,
			"num_return_sequences": numSequences,
		},
	})
	var out []generatedSequence
	if !res.Decode(&out) || len(out) == 0 || out[0].GeneratedText == nil {
		return GenerationFallback
	}
	return *out[0].GeneratedText
}
