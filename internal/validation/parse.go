package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawVerdict struct {
	IsValid              *bool       `json:"is_valid"`
	QualityScore         json.Number `json:"quality_score"`
	Feedback             string      `json:"feedback"`
	CulturalSignificance string      `json:"cultural_significance"`
	Suggestions          []string    `json:"suggestions"`
}

// parseVerdict turns a model response into a Verdict. Missing fields are
// default-filled; only a response with no parsable JSON object is an error,
// which advances the fallback chain.
func parseVerdict(content, method string) (*Verdict, error) {
	payload := extractJSONObject(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON object in %s response", method)
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", method, err)
	}

	verdict := &Verdict{
		IsValid:              true,
		QualityScore:         3,
		Feedback:             "Content validated successfully",
		CulturalSignificance: raw.CulturalSignificance,
		Suggestions:          raw.Suggestions,
		ValidationMethod:     method,
	}

	if raw.IsValid != nil {
		verdict.IsValid = *raw.IsValid
	}
	if raw.QualityScore != "" {
		if f, err := raw.QualityScore.Float64(); err == nil {
			verdict.QualityScore = clampScore(int(f))
		}
	}
	if raw.Feedback != "" {
		verdict.Feedback = raw.Feedback
	}
	if verdict.Suggestions == nil {
		verdict.Suggestions = []string{}
	}

	return verdict, nil
}

// extractJSONObject tolerates markdown fences and prose around the object
// that some models wrap their JSON in.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}
