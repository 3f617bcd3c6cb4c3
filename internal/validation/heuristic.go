package validation

import (
	"context"
	"strings"
	"unicode/utf8"
)

var culturalIndicators = []string{"india", "indian", "cultural", "tradition", "festival", "language"}

var educationalMarkers = []string{"because", "significance", "meaning", "origin", "history"}

// Deliberately tiny; rejecting on these matches is documented behavior, not
// an adequate moderation gate.
var offensiveWords = []string{"hate", "offensive", "inappropriate"}

// HeuristicBackend is the always-available deterministic judge at the end of
// the chain. It never returns an error.
type HeuristicBackend struct{}

func NewHeuristicBackend() *HeuristicBackend {
	return &HeuristicBackend{}
}

func (b *HeuristicBackend) Name() string {
	return "basic"
}

func (b *HeuristicBackend) Validate(_ context.Context, content, _ string) (*Verdict, error) {
	trimmed := strings.TrimSpace(content)
	lower := strings.ToLower(content)

	// Length gates count characters, not bytes, so Devanagari and Tamil
	// submissions are measured the same as Latin ones.
	length := utf8.RuneCountInString(trimmed)

	isValid := true
	score := 3.0
	var feedback []string
	var suggestions []string

	if length < 10 {
		isValid = false
		score = 1
		feedback = append(feedback, "Content is too short to be meaningful")
		suggestions = append(suggestions, "Please provide more detailed information")
	} else if length < 50 {
		score = 2
		feedback = append(feedback, "Content could be more detailed")
		suggestions = append(suggestions, "Consider adding more context or examples")
	}

	if containsAny(lower, culturalIndicators) {
		score++
		feedback = append(feedback, "Content appears to be culturally relevant")
	}

	if containsAny(lower, educationalMarkers) {
		score += 0.5
		feedback = append(feedback, "Content includes educational context")
	}

	if containsAny(lower, offensiveWords) {
		isValid = false
		score = 1
		feedback = append(feedback, "Content may contain inappropriate material")
	}

	if length < 20 {
		isValid = false
	}

	feedbackText := "Content passed basic validation"
	if len(feedback) > 0 {
		feedbackText = strings.Join(feedback, "; ")
	}

	return &Verdict{
		IsValid:              isValid,
		QualityScore:         clampScore(int(score)),
		Feedback:             feedbackText,
		CulturalSignificance: "Unable to assess without AI validation",
		Suggestions:          suggestions,
		ValidationMethod:     b.Name(),
	}, nil
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
