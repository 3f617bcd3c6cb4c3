package validation

import (
	"context"

	"go.uber.org/zap"

	"github.com/culture-explorer/backend/pkg/logger"
)

// Verdict is the validator's decision for one candidate submission. It is
// transient; on acceptance only the quality score is folded into the stored
// record.
type Verdict struct {
	IsValid              bool     `json:"is_valid"`
	QualityScore         int      `json:"quality_score"`
	Feedback             string   `json:"feedback"`
	CulturalSignificance string   `json:"cultural_significance"`
	Suggestions          []string `json:"suggestions"`
	ValidationMethod     string   `json:"validation_method"`
}

// Backend is one concrete judge in the fallback chain.
type Backend interface {
	Name() string
	Validate(ctx context.Context, content, category string) (*Verdict, error)
}

// Chain tries its backends in declared order and advances on any error.
// The last backend is expected to be the heuristic, which cannot fail, so
// Validate always produces a well-formed verdict.
type Chain struct {
	backends []Backend
}

func NewChain(backends ...Backend) *Chain {
	return &Chain{backends: backends}
}

// DefaultChain builds the production ordering: OpenAI, then Gemini, then the
// deterministic heuristic. Remote backends without credentials are skipped
// at their own Validate call.
func DefaultChain(openAI *OpenAIBackend, gemini *GeminiBackend) *Chain {
	return NewChain(openAI, gemini, NewHeuristicBackend())
}

func (c *Chain) Validate(ctx context.Context, content, category string) *Verdict {
	for _, backend := range c.backends {
		verdict, err := backend.Validate(ctx, content, category)
		if err != nil {
			logger.Warn("Validation backend unavailable, falling through",
				zap.String("backend", backend.Name()),
				zap.Error(err),
			)
			continue
		}
		return verdict
	}

	// Unreachable with the default chain; kept so a misconfigured chain
	// still degrades to the heuristic instead of returning nil.
	verdict, _ := NewHeuristicBackend().Validate(ctx, content, category)
	return verdict
}

// clampScore forces a backend-reported score into the 1-5 band, covering
// adversarial or malformed model output.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 5 {
		return 5
	}
	return score
}
