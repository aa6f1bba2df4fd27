package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"license-investigation/internal/models"
)

const validAnalysisJSON = `{
	"key_findings": ["Licensee failed to document consent", "Records released to third party"],
	"recommended_strategies": ["Request complete medical records", "Interview office staff"],
	"risk_assessment": {
		"level": "high",
		"factors": ["PHI disclosure", "Pattern of violations"],
		"urgency": "high"
	},
	"compliance_notes": ["HIPAA breach notification may be required"],
	"confidence_score": 0.85
}`

func TestParseAnalysisResponse(t *testing.T) {
	t.Run("raw JSON object", func(t *testing.T) {
		result := ParseAnalysisResponse(validAnalysisJSON)

		assert.False(t, result.Fallback)
		assert.Equal(t, []string{"Licensee failed to document consent", "Records released to third party"}, result.KeyFindings)
		assert.Equal(t, models.RiskLevelHigh, result.RiskAssessment.Level)
		assert.Equal(t, "high", result.RiskAssessment.Urgency)
		assert.Equal(t, 0.85, result.ConfidenceScore)
	})

	t.Run("json fenced block", func(t *testing.T) {
		text := "Here is my analysis:\n```json\n" + validAnalysisJSON + "\n```\nLet me know if you need more."

		result := ParseAnalysisResponse(text)

		assert.False(t, result.Fallback)
		assert.Len(t, result.KeyFindings, 2)
	})

	t.Run("plain fenced block", func(t *testing.T) {
		text := "```\n" + validAnalysisJSON + "\n```"

		result := ParseAnalysisResponse(text)

		assert.False(t, result.Fallback)
		assert.Equal(t, 0.85, result.ConfidenceScore)
	})

	t.Run("json fence preferred over plain fence", func(t *testing.T) {
		text := "```json\n" + validAnalysisJSON + "\n```"

		result := ParseAnalysisResponse(text)

		assert.False(t, result.Fallback)
	})

	t.Run("object embedded in prose", func(t *testing.T) {
		text := "Based on my review, here are the results: " + validAnalysisJSON + " I hope this helps."

		result := ParseAnalysisResponse(text)

		assert.False(t, result.Fallback)
		assert.Len(t, result.RecommendedStrategies, 2)
	})

	t.Run("missing keys default to empty values", func(t *testing.T) {
		result := ParseAnalysisResponse(`{"key_findings": ["one finding"]}`)

		assert.False(t, result.Fallback)
		assert.Equal(t, []string{"one finding"}, result.KeyFindings)
		assert.Empty(t, result.RecommendedStrategies)
		assert.NotNil(t, result.RecommendedStrategies)
		assert.Empty(t, result.ComplianceNotes)
		assert.True(t, result.RiskAssessment.IsZero())
		assert.Equal(t, 0.0, result.ConfidenceScore)
	})

	t.Run("unparseable text yields fallback", func(t *testing.T) {
		result := ParseAnalysisResponse("I was unable to complete the analysis.")

		assert.True(t, result.Fallback)
		assert.Equal(t, []string{"Analysis completed. Review required."}, result.KeyFindings)
		assert.Equal(t, []string{"Conduct thorough investigation"}, result.RecommendedStrategies)
		assert.Equal(t, models.RiskLevelMedium, result.RiskAssessment.Level)
		assert.Equal(t, []string{"Requires manual review"}, result.RiskAssessment.Factors)
		assert.Equal(t, "medium", result.RiskAssessment.Urgency)
		assert.Equal(t, []string{"Ensure HIPAA compliance in investigation"}, result.ComplianceNotes)
		assert.Equal(t, 0.5, result.ConfidenceScore)
	})

	t.Run("malformed JSON yields fallback", func(t *testing.T) {
		result := ParseAnalysisResponse(`{"key_findings": ["unterminated`)

		assert.True(t, result.Fallback)
	})

	t.Run("non object JSON yields fallback", func(t *testing.T) {
		result := ParseAnalysisResponse(`["just", "a", "list"]`)

		assert.True(t, result.Fallback)
	})

	t.Run("empty input yields fallback", func(t *testing.T) {
		result := ParseAnalysisResponse("")

		assert.True(t, result.Fallback)
	})
}

func TestParseStrategiesResponse(t *testing.T) {
	t.Run("plain array", func(t *testing.T) {
		strategies := ParseStrategiesResponse(`["Subpoena billing records", "Interview the complainant"]`)

		assert.Equal(t, []string{"Subpoena billing records", "Interview the complainant"}, strategies)
	})

	t.Run("fenced array", func(t *testing.T) {
		strategies := ParseStrategiesResponse("```json\n[\"Request expert review\"]\n```")

		require.Len(t, strategies, 1)
		assert.Equal(t, "Request expert review", strategies[0])
	})

	t.Run("unparseable text yields default strategies", func(t *testing.T) {
		strategies := ParseStrategiesResponse("Sorry, I cannot produce a list right now.")

		assert.Equal(t, []string{
			"Review all available documentation",
			"Conduct interviews with relevant parties",
		}, strategies)
	})

	t.Run("empty array is respected", func(t *testing.T) {
		strategies := ParseStrategiesResponse(`[]`)

		assert.Empty(t, strategies)
	})
}
