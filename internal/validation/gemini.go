package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/culture-explorer/backend/pkg/circuitbreaker"
	"github.com/culture-explorer/backend/pkg/logger"
)

// GeminiBackend is the second remote judge, tried when OpenAI is
// unavailable. Same verdict contract, same fall-through-on-failure policy.
type GeminiBackend struct {
	client    *genai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	cb        *circuitbreaker.CircuitBreaker
}

func NewGeminiBackend(apiKey, model string, maxTokens, timeoutSec int) *GeminiBackend {
	b := &GeminiBackend{
		model:     model,
		maxTokens: maxTokens,
		timeout:   time.Duration(timeoutSec) * time.Second,
		cb: circuitbreaker.NewCircuitBreaker("gemini-validation", circuitbreaker.Config{
			MaxRequests:      5,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Logger:           logger.GetLogger(),
		}),
	}

	if apiKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: apiKey,
		})
		if err != nil {
			logger.Warn("Failed to create Gemini client, backend disabled", zap.Error(err))
		} else {
			b.client = client
			logger.Info("Gemini validation backend initialized", zap.String("model", model))
		}
	}

	return b
}

func (b *GeminiBackend) Name() string {
	return "gemini"
}

func (b *GeminiBackend) Validate(ctx context.Context, content, category string) (*Verdict, error) {
	if b.client == nil {
		return nil, errNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var verdict *Verdict

	err := b.cb.Execute(ctx, func() error {
		result, err := b.client.Models.GenerateContent(ctx,
			b.model,
			genai.Text(geminiPrompt(content, category)),
			&genai.GenerateContentConfig{
				MaxOutputTokens:  int32(b.maxTokens),
				ResponseMIMEType: "application/json",
			},
		)
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}

		text := result.Text()
		if strings.TrimSpace(text) == "" {
			return errors.New("empty response from Gemini")
		}

		verdict, err = parseVerdict(text, b.Name())
		return err
	})

	if err != nil {
		return nil, err
	}

	return verdict, nil
}

func geminiPrompt(content, category string) string {
	return fmt.Sprintf(`Analyze this %s content for cultural accuracy and educational value:

Content: "%s"

Evaluate for:
1. Cultural authenticity
2. Educational value
3. Factual accuracy
4. Clarity and completeness
5. Cultural sensitivity

Respond in JSON format with:
- "is_valid": boolean
- "quality_score": number 1-5
- "feedback": string
- "cultural_significance": string
- "suggestions": array of strings`, category, content)
}
