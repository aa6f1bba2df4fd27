package analysis

import (
	"encoding/json"
	"strings"

	"license-investigation/internal/models"
)

// ParseResult is the structured interpretation of a model's analysis text.
// Fallback reports whether the text could not be parsed and the default
// analysis was substituted, so downstream consumers can tell a genuine model
// verdict from a placeholder.
type ParseResult struct {
	KeyFindings           []string              `json:"key_findings"`
	RecommendedStrategies []string              `json:"recommended_strategies"`
	RiskAssessment        models.RiskAssessment `json:"risk_assessment"`
	ComplianceNotes       []string              `json:"compliance_notes"`
	ConfidenceScore       float64               `json:"confidence_score"`
	Fallback              bool                  `json:"-"`
}

// fallbackResult is returned whenever the model output cannot be interpreted
// as a JSON analysis object.
func fallbackResult() ParseResult {
	return ParseResult{
		KeyFindings:           []string{"Analysis completed. Review required."},
		RecommendedStrategies: []string{"Conduct thorough investigation"},
		RiskAssessment: models.RiskAssessment{
			Level:   models.RiskLevelMedium,
			Factors: []string{"Requires manual review"},
			Urgency: "medium",
		},
		ComplianceNotes: []string{"Ensure HIPAA compliance in investigation"},
		ConfidenceScore: 0.5,
		Fallback:        true,
	}
}

// extractJSON strips markdown fencing from a model response. A ```json fence
// wins over a bare ``` fence; unfenced text is returned trimmed.
func extractJSON(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
		return strings.TrimSpace(text[start:])
	}
	if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			return strings.TrimSpace(text[start : start+end])
		}
		return strings.TrimSpace(text[start:])
	}
	return strings.TrimSpace(text)
}

// ParseAnalysisResponse interprets raw model output as an analysis object.
// Fenced JSON is unwrapped first; text that does not begin with an object is
// narrowed to the span between the first "{" and the last "}". Anything that
// still fails to parse yields the fallback analysis. Missing keys in a parsed
// object default to empty values; they are not treated as a parse failure.
func ParseAnalysisResponse(responseText string) ParseResult {
	jsonText := extractJSON(responseText)

	if !strings.HasPrefix(jsonText, "{") {
		start := strings.Index(jsonText, "{")
		end := strings.LastIndex(jsonText, "}")
		if start < 0 || end <= start {
			return fallbackResult()
		}
		jsonText = jsonText[start : end+1]
	}

	var result ParseResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil {
		return fallbackResult()
	}

	if result.KeyFindings == nil {
		result.KeyFindings = []string{}
	}
	if result.RecommendedStrategies == nil {
		result.RecommendedStrategies = []string{}
	}
	if result.ComplianceNotes == nil {
		result.ComplianceNotes = []string{}
	}
	return result
}

// ParseStrategiesResponse interprets model output as a JSON array of strategy
// strings. Unparseable output yields the default strategy list.
func ParseStrategiesResponse(responseText string) []string {
	text := responseText
	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			text = text[start : start+end]
		} else {
			text = text[start:]
		}
	}
	text = strings.TrimSpace(text)

	var strategies []string
	if err := json.Unmarshal([]byte(text), &strategies); err != nil || strategies == nil {
		return []string{
			"Review all available documentation",
			"Conduct interviews with relevant parties",
		}
	}
	return strategies
}
