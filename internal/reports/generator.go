package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"license-investigation/internal/compliance"
	"license-investigation/internal/models"
)

// Generator assembles panel-facing investigation reports. Every call produces
// a new, independent report; regeneration bookkeeping (version increments) is
// the caller's responsibility.
type Generator struct {
	checker *compliance.Checker
	logger  *zap.Logger
}

// NewGenerator creates a report generator backed by the given compliance
// checker.
func NewGenerator(checker *compliance.Checker, logger *zap.Logger) *Generator {
	return &Generator{
		checker: checker,
		logger:  logger.Named("reports"),
	}
}

// GeneratePanelReport assembles a report from a complaint, its full document
// list and an AI analysis. generatedBy identifies the requesting user.
func (g *Generator) GeneratePanelReport(
	complaint *models.Complaint,
	documents []models.Document,
	aiAnalysis *models.AIAnalysis,
	generatedBy string,
) *models.InvestigationReport {
	g.logger.Info("Generating panel report",
		zap.String("complaint_number", complaint.ComplaintNumber))

	complianceStatus := g.checker.ComprehensiveCheck(complaint, documents)

	var complaintDocs, responseDocs []models.Document
	for _, doc := range documents {
		switch doc.DocumentType {
		case models.DocumentTypeComplaint:
			complaintDocs = append(complaintDocs, doc)
		case models.DocumentTypeResponse:
			responseDocs = append(responseDocs, doc)
		}
	}

	var complaintID uuid.UUID
	if complaint.ID != nil {
		complaintID = *complaint.ID
	}

	report := &models.InvestigationReport{
		ComplaintID:              complaintID,
		ReportDate:               time.Now().UTC(),
		ExecutiveSummary:         buildExecutiveSummary(complaint, aiAnalysis, complianceStatus),
		ComplaintDetails:         buildComplaintDetails(complaint, complaintDocs),
		ResponseAnalysis:         buildResponseAnalysis(responseDocs, aiAnalysis),
		KeyFindings:              aiAnalysis.KeyFindings,
		RecommendedStrategies:    aiAnalysis.RecommendedStrategies,
		ComplianceConsiderations: buildComplianceConsiderations(complianceStatus),
		RiskAssessment:           aiAnalysis.RiskAssessment,
		GeneratedBy:              generatedBy,
		Version:                  1,
	}

	g.logger.Info("Panel report generated",
		zap.String("complaint_number", complaint.ComplaintNumber),
		zap.Bool("overall_compliant", complianceStatus.OverallCompliant))
	return report
}

func buildExecutiveSummary(
	complaint *models.Complaint,
	aiAnalysis *models.AIAnalysis,
	complianceStatus compliance.ComprehensiveResult,
) string {
	lines := []string{
		fmt.Sprintf("Investigation Report: %s", complaint.ComplaintNumber),
		fmt.Sprintf("Licensee: %s (License: %s)", complaint.LicenseeName, complaint.LicenseeLicenseNumber),
		fmt.Sprintf("Status: %s", complaint.Status),
		"",
		"EXECUTIVE SUMMARY",
		fmt.Sprintf("This report summarizes the investigation of complaint %s received on %s.",
			complaint.ComplaintNumber, complaint.ReceivedDate.Format("2006-01-02")),
		"",
		"KEY FINDINGS:",
	}

	findings := aiAnalysis.KeyFindings
	if len(findings) > 5 {
		findings = findings[:5]
	}
	for i, finding := range findings {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, finding))
	}

	riskLevel := "unknown"
	if aiAnalysis.RiskAssessment.Level != "" {
		riskLevel = string(aiAnalysis.RiskAssessment.Level)
	}
	urgency := "unknown"
	if aiAnalysis.RiskAssessment.Urgency != "" {
		urgency = aiAnalysis.RiskAssessment.Urgency
	}

	complianceLine := "ISSUES IDENTIFIED"
	if complianceStatus.OverallCompliant {
		complianceLine = "COMPLIANT"
	}

	lines = append(lines,
		"",
		fmt.Sprintf("RISK ASSESSMENT: %s", strings.ToUpper(riskLevel)),
		fmt.Sprintf("  Urgency: %s", urgency),
		"",
		fmt.Sprintf("COMPLIANCE STATUS: %s", complianceLine),
	)

	return strings.Join(lines, "\n")
}

func buildComplaintDetails(complaint *models.Complaint, complaintDocs []models.Document) models.ComplaintDetails {
	complainant := "Not disclosed"
	if complaint.ComplainantName != nil && *complaint.ComplainantName != "" {
		complainant = *complaint.ComplainantName
	}
	investigator := "Not assigned"
	if complaint.AssignedInvestigator != nil && *complaint.AssignedInvestigator != "" {
		investigator = *complaint.AssignedInvestigator
	}

	docList := make([]models.DocumentRef, 0, len(complaintDocs))
	for _, doc := range complaintDocs {
		docList = append(docList, models.DocumentRef{
			Filename: doc.Filename,
			Type:     string(doc.DocumentType),
			Uploaded: doc.UploadedAt.UTC().Format(time.RFC3339),
		})
	}

	return models.ComplaintDetails{
		ComplaintNumber:        complaint.ComplaintNumber,
		ReceivedDate:           complaint.ReceivedDate.UTC().Format(time.RFC3339),
		Complainant:            complainant,
		LicenseeName:           complaint.LicenseeName,
		LicenseeLicenseNumber:  complaint.LicenseeLicenseNumber,
		Description:            complaint.ComplaintDescription,
		Status:                 string(complaint.Status),
		AssignedInvestigator:   investigator,
		SecurityClassification: string(complaint.SecurityClassification),
		AssociatedDocuments:    len(complaintDocs),
		DocumentList:           docList,
	}
}

func buildResponseAnalysis(responseDocs []models.Document, aiAnalysis *models.AIAnalysis) models.ResponseAnalysis {
	docs := make([]models.ResponseDocumentRef, 0, len(responseDocs))
	for _, doc := range responseDocs {
		docs = append(docs, models.ResponseDocumentRef{
			Filename:               doc.Filename,
			Uploaded:               doc.UploadedAt.UTC().Format(time.RFC3339),
			SecurityClassification: string(doc.SecurityClassification),
		})
	}

	return models.ResponseAnalysis{
		ResponseDocumentsCount: len(responseDocs),
		ResponseDocuments:      docs,
		AIAnalysisSummary: models.AnalysisSummary{
			KeyFindings:     aiAnalysis.KeyFindings,
			ConfidenceScore: aiAnalysis.ConfidenceScore,
			ModelVersion:    aiAnalysis.ModelVersion,
		},
	}
}

func buildComplianceConsiderations(status compliance.ComprehensiveResult) []string {
	considerations := []string{}

	if !status.HIPAA.Compliant {
		considerations = append(considerations,
			"HIPAA COMPLIANCE ISSUES: "+strings.Join(status.HIPAA.Issues, "; "))
	} else {
		considerations = append(considerations, "HIPAA: Compliant")
	}

	if !status.CFR2.Compliant {
		considerations = append(considerations,
			"42 CFR PART 2 COMPLIANCE ISSUES: "+strings.Join(status.CFR2.Issues, "; "))
	} else if len(status.CFR2.Warnings) > 0 {
		considerations = append(considerations,
			"42 CFR PART 2 WARNINGS: "+strings.Join(status.CFR2.Warnings, "; "))
	} else {
		considerations = append(considerations, "42 CFR Part 2: Compliant")
	}

	if !status.StateRecordsLaw.Compliant {
		considerations = append(considerations,
			"STATE RECORDS LAW COMPLIANCE ISSUES: "+strings.Join(status.StateRecordsLaw.Issues, "; "))
	} else {
		considerations = append(considerations, "State Records Law: Compliant")
	}

	if len(status.AllWarnings) > 0 {
		considerations = append(considerations,
			"GENERAL WARNINGS: "+strings.Join(status.AllWarnings, "; "))
	}

	return considerations
}
