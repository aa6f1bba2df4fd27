package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"license-investigation/internal/llm"
	"license-investigation/internal/models"
)

type stubGenerator struct {
	response string
	err      error
	messages []llm.Message
}

func (s *stubGenerator) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.messages = messages
	return s.response, s.err
}

func analyzerComplaint() *models.Complaint {
	id := uuid.New()
	return &models.Complaint{
		ID:                    &id,
		ComplaintNumber:       "COMP-2024-0007",
		ReceivedDate:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		LicenseeName:          "Dr. John Doe",
		LicenseeLicenseNumber: "RN-9876",
		ComplaintDescription:  "Failure to maintain treatment records",
	}
}

func TestAnalyzeComplaint(t *testing.T) {
	t.Run("parses structured response", func(t *testing.T) {
		gen := &stubGenerator{response: "```json\n" + validAnalysisJSON + "\n```"}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())
		complaint := analyzerComplaint()

		analysis, err := analyzer.AnalyzeComplaint(context.Background(), complaint,
			[]models.Document{{Filename: "complaint.pdf", DocumentType: models.DocumentTypeComplaint}},
			nil)

		require.NoError(t, err)
		assert.Equal(t, *complaint.ID, analysis.ComplaintID)
		assert.Equal(t, "gpt-4", analysis.ModelVersion)
		assert.Equal(t, 0.85, analysis.ConfidenceScore)
		assert.Equal(t, models.RiskLevelHigh, analysis.RiskAssessment.Level)
		assert.False(t, analysis.AnalysisDate.IsZero())
	})

	t.Run("prompt includes complaint and document context", func(t *testing.T) {
		gen := &stubGenerator{response: validAnalysisJSON}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		_, err := analyzer.AnalyzeComplaint(context.Background(), analyzerComplaint(),
			[]models.Document{{Filename: "evidence.pdf", DocumentType: models.DocumentTypeEvidence}},
			[]models.Document{{Filename: "reply.pdf", DocumentType: models.DocumentTypeResponse}})

		require.NoError(t, err)
		require.Len(t, gen.messages, 2)
		assert.Equal(t, "system", gen.messages[0].Role)
		assert.Contains(t, gen.messages[1].Content, "COMP-2024-0007")
		assert.Contains(t, gen.messages[1].Content, "evidence.pdf")
		assert.Contains(t, gen.messages[1].Content, "reply.pdf")
	})

	t.Run("no response documents noted in prompt", func(t *testing.T) {
		gen := &stubGenerator{response: validAnalysisJSON}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		_, err := analyzer.AnalyzeComplaint(context.Background(), analyzerComplaint(), nil, nil)

		require.NoError(t, err)
		assert.Contains(t, gen.messages[1].Content, "No response documents available.")
	})

	t.Run("unparseable response falls back", func(t *testing.T) {
		gen := &stubGenerator{response: "I could not analyze this."}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		analysis, err := analyzer.AnalyzeComplaint(context.Background(), analyzerComplaint(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, models.StringSlice{"Analysis completed. Review required."}, analysis.KeyFindings)
		assert.Equal(t, 0.5, analysis.ConfidenceScore)
	})

	t.Run("generator error propagates", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("backend unavailable")}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		_, err := analyzer.AnalyzeComplaint(context.Background(), analyzerComplaint(), nil, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "analysis generation failed")
	})
}

func TestRecommendStrategies(t *testing.T) {
	t.Run("parses strategy array", func(t *testing.T) {
		gen := &stubGenerator{response: `["Request pharmacy logs", "Depose office manager"]`}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		strategies, err := analyzer.RecommendStrategies(context.Background(), analyzerComplaint(),
			[]string{"Missing consent forms"}, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"Request pharmacy logs", "Depose office manager"}, strategies)
		assert.Contains(t, gen.messages[0].Content, "Missing consent forms")
	})

	t.Run("unusable response yields defaults", func(t *testing.T) {
		gen := &stubGenerator{response: "no list today"}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		strategies, err := analyzer.RecommendStrategies(context.Background(), analyzerComplaint(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"Review all available documentation",
			"Conduct interviews with relevant parties",
		}, strategies)
	})

	t.Run("generator error propagates", func(t *testing.T) {
		gen := &stubGenerator{err: errors.New("timeout")}
		analyzer := NewAnalyzer(gen, "gpt-4", zap.NewNop())

		_, err := analyzer.RecommendStrategies(context.Background(), analyzerComplaint(), nil, nil)

		require.Error(t, err)
	})
}
