package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/llm"
	"license-investigation/internal/models"
)

const analysisSystemPrompt = `You are an expert investigator analyzing complaints against licensed professionals.
Your role is to:
1. Identify key facts and allegations in the complaint
2. Analyze responses and evidence provided
3. Identify gaps in information
4. Recommend investigation strategies
5. Assess compliance risks
6. Note any HIPAA, 42 CFR Part 2, or state law considerations

Provide your analysis in a structured format with:
- Key findings (list of important facts and observations)
- Recommended information-gathering strategies (specific actions to take)
- Risk assessment (level of risk and factors)
- Compliance notes (regulatory considerations)

Be thorough, objective, and focus on actionable recommendations.`

// Analyzer runs text-generation passes over complaints and interprets the
// results. The generator backend is opaque; all structure comes from the
// response parser, which degrades to a fallback analysis on unusable output.
type Analyzer struct {
	generator llm.TextGenerator
	model     string
	logger    *zap.Logger
}

// NewAnalyzer creates a complaint analyzer. model is recorded on produced
// analyses as the model version.
func NewAnalyzer(generator llm.TextGenerator, model string, logger *zap.Logger) *Analyzer {
	return &Analyzer{
		generator: generator,
		model:     model,
		logger:    logger.Named("analyzer"),
	}
}

// AnalyzeComplaint analyzes a complaint together with its complaint-side and
// response-side documents and returns a new AIAnalysis. The returned analysis
// is never mutated afterwards; re-analysis produces a fresh instance.
func (a *Analyzer) AnalyzeComplaint(
	ctx context.Context,
	complaint *models.Complaint,
	complaintDocuments []models.Document,
	responseDocuments []models.Document,
) (*models.AIAnalysis, error) {
	a.logger.Info("Starting AI analysis",
		zap.String("complaint_number", complaint.ComplaintNumber))

	complaintText := prepareComplaintText(complaint, complaintDocuments)
	responseText := prepareResponseText(responseDocuments)

	response, err := a.generator.Chat(ctx, []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: buildAnalysisPrompt(complaintText, responseText)},
	})
	if err != nil {
		return nil, errors.Wrap(err, "analysis generation failed")
	}

	result := ParseAnalysisResponse(response)
	if result.Fallback {
		a.logger.Warn("Analysis response was not parseable, using fallback",
			zap.String("complaint_number", complaint.ComplaintNumber))
	}

	var complaintID uuid.UUID
	if complaint.ID != nil {
		complaintID = *complaint.ID
	}

	analysis := &models.AIAnalysis{
		ComplaintID:           complaintID,
		AnalysisDate:          time.Now().UTC(),
		KeyFindings:           result.KeyFindings,
		RecommendedStrategies: result.RecommendedStrategies,
		RiskAssessment:        result.RiskAssessment,
		ComplianceNotes:       result.ComplianceNotes,
		ConfidenceScore:       result.ConfidenceScore,
		ModelVersion:          a.model,
	}

	a.logger.Info("AI analysis complete",
		zap.String("complaint_number", complaint.ComplaintNumber),
		zap.Float64("confidence_score", analysis.ConfidenceScore),
		zap.Bool("fallback", result.Fallback))
	return analysis, nil
}

// RecommendStrategies asks the generator for additional information-gathering
// strategies given the current findings and evidence. Unusable output yields
// the default strategy list rather than an error.
func (a *Analyzer) RecommendStrategies(
	ctx context.Context,
	complaint *models.Complaint,
	currentFindings []string,
	availableEvidence []models.Document,
) ([]string, error) {
	a.logger.Info("Generating investigation strategies",
		zap.String("complaint_number", complaint.ComplaintNumber))

	prompt := fmt.Sprintf(`Based on the following complaint and current findings, recommend specific information-gathering strategies:

Complaint: %s
Current Findings: %s
Available Evidence: %d document(s)

Provide a list of specific, actionable investigation strategies. Consider:
- What additional information is needed
- Who should be interviewed
- What documents should be requested
- What expert opinions might be needed
- Compliance and legal considerations

Return as a JSON array of strategy strings.`,
		complaint.ComplaintDescription,
		strings.Join(currentFindings, ", "),
		len(availableEvidence))

	response, err := a.generator.Chat(ctx, []llm.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, errors.Wrap(err, "strategy generation failed")
	}

	return ParseStrategiesResponse(response), nil
}

func prepareComplaintText(complaint *models.Complaint, documents []models.Document) string {
	parts := []string{
		fmt.Sprintf("Complaint Number: %s", complaint.ComplaintNumber),
		fmt.Sprintf("Received Date: %s", complaint.ReceivedDate.Format("2006-01-02")),
		fmt.Sprintf("Licensee: %s (License: %s)", complaint.LicenseeName, complaint.LicenseeLicenseNumber),
		fmt.Sprintf("Description: %s", complaint.ComplaintDescription),
	}

	if len(documents) > 0 {
		parts = append(parts, fmt.Sprintf("\nAssociated Documents: %d document(s)", len(documents)))
		for _, doc := range documents {
			parts = append(parts, fmt.Sprintf("  - %s (%s)", doc.Filename, doc.DocumentType))
		}
	}

	return strings.Join(parts, "\n")
}

func prepareResponseText(documents []models.Document) string {
	if len(documents) == 0 {
		return "No response documents available."
	}

	parts := []string{fmt.Sprintf("Response Documents: %d document(s)", len(documents))}
	for _, doc := range documents {
		parts = append(parts, fmt.Sprintf("  - %s (%s)", doc.Filename, doc.DocumentType))
	}

	return strings.Join(parts, "\n")
}

func buildAnalysisPrompt(complaintText, responseText string) string {
	return fmt.Sprintf(`Please analyze the following complaint investigation:

COMPLAINT INFORMATION:
%s

RESPONSE INFORMATION:
%s

Provide a comprehensive analysis in JSON format with the following structure:
{
    "key_findings": ["finding1", "finding2", ...],
    "recommended_strategies": ["strategy1", "strategy2", ...],
    "risk_assessment": {
        "level": "low|medium|high|critical",
        "factors": ["factor1", "factor2", ...],
        "urgency": "low|medium|high"
    },
    "compliance_notes": ["note1", "note2", ...],
    "confidence_score": 0.0-1.0
}`, complaintText, responseText)
}
