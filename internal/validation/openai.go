package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/pkg/circuitbreaker"
	"github.com/culture-explorer/backend/pkg/logger"
	"github.com/culture-explorer/backend/pkg/retry"
)

var errNoCredential = errors.New("no API credential configured")

// OpenAIBackend judges submissions with an OpenAI chat completion. A missing
// credential, a dead circuit or any API failure surfaces as an error so the
// chain advances.
type OpenAIBackend struct {
	client      *openai.Client
	model       string
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewOpenAIBackend(apiKey, model string, maxTokens, timeoutSec int) *OpenAIBackend {
	b := &OpenAIBackend{
		model:     model,
		maxTokens: maxTokens,
		timeout:   time.Duration(timeoutSec) * time.Second,
		cb: circuitbreaker.NewCircuitBreaker("openai-validation", circuitbreaker.Config{
			MaxRequests:      5,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Logger:           logger.GetLogger(),
		}),
		retryConfig: retry.Config{
			MaxAttempts:    2,
			InitialDelay:   500 * time.Millisecond,
			MaxDelay:       5 * time.Second,
			Multiplier:     2.0,
			JitterFraction: 0.1,
			Logger:         logger.GetLogger(),
		},
	}

	if apiKey != "" {
		b.client = openai.NewClient(apiKey)
		logger.Info("OpenAI validation backend initialized", zap.String("model", model))
	}

	return b
}

func (b *OpenAIBackend) Name() string {
	return "openai"
}

func (b *OpenAIBackend) Validate(ctx context.Context, content, category string) (*Verdict, error) {
	if b.client == nil {
		return nil, errNoCredential
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var verdict *Verdict

	err := b.cb.Execute(ctx, func() error {
		return retry.Do(ctx, b.retryConfig, func() error {
			resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
				Model:     b.model,
				MaxTokens: b.maxTokens,
				ResponseFormat: &openai.ChatCompletionResponseFormat{
					Type: openai.ChatCompletionResponseFormatTypeJSONObject,
				},
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleSystem,
						Content: validationSystemPrompt,
					},
					{
						Role:    openai.ChatMessageRoleUser,
						Content: validationUserPrompt(content, category),
					},
				},
			})
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
				return errors.New("empty response from OpenAI")
			}

			logger.Debug("Validation completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			verdict, err = parseVerdict(resp.Choices[0].Message.Content, b.Name())
			return err
		})
	})

	if err != nil {
		return nil, err
	}

	return verdict, nil
}

const validationSystemPrompt = "You are an expert in Indian culture, history, and languages. " +
	"Evaluate content for accuracy, educational value, and cultural sensitivity. " +
	"Respond with JSON format as requested."

func validationUserPrompt(content, category string) string {
	return fmt.Sprintf(`Analyze the following %s content for quality and cultural accuracy:

Content: "%s"

Please evaluate based on:
1. Cultural accuracy and authenticity
2. Educational value
3. Clarity and completeness
4. Factual correctness
5. Appropriateness for all audiences

Provide a JSON response with:
- "is_valid": boolean (true if content meets quality standards)
- "quality_score": number from 1-5 (5 being highest quality)
- "feedback": string with specific feedback
- "cultural_significance": string describing cultural value
- "suggestions": array of improvement suggestions`, category, content)
}
