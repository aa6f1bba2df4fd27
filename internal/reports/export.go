package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"license-investigation/internal/models"
)

var sectionBanner = strings.Repeat("=", 80)

// ExportText renders a report as plain text with fixed section banners. The
// output is deterministic for identical reports; field iteration follows the
// declared order of the report's record types.
func ExportText(report *models.InvestigationReport) string {
	lines := []string{
		sectionBanner,
		"INVESTIGATION REPORT",
		sectionBanner,
		fmt.Sprintf("Report Date: %s", report.ReportDate.UTC().Format("2006-01-02 15:04:05 UTC")),
		fmt.Sprintf("Complaint ID: %s", report.ComplaintID),
		fmt.Sprintf("Generated By: %s", report.GeneratedBy),
		fmt.Sprintf("Version: %d", report.Version),
		"",
		report.ExecutiveSummary,
		"",
		sectionBanner,
		"COMPLAINT DETAILS",
		sectionBanner,
	}

	details := report.ComplaintDetails
	lines = append(lines,
		fmt.Sprintf("complaint_number: %s", details.ComplaintNumber),
		fmt.Sprintf("received_date: %s", details.ReceivedDate),
		fmt.Sprintf("complainant: %s", details.Complainant),
		fmt.Sprintf("licensee_name: %s", details.LicenseeName),
		fmt.Sprintf("licensee_license_number: %s", details.LicenseeLicenseNumber),
		fmt.Sprintf("description: %s", details.Description),
		fmt.Sprintf("status: %s", details.Status),
		fmt.Sprintf("assigned_investigator: %s", details.AssignedInvestigator),
		fmt.Sprintf("security_classification: %s", details.SecurityClassification),
		fmt.Sprintf("associated_documents: %d", details.AssociatedDocuments),
		"document_list:",
	)
	for _, doc := range details.DocumentList {
		lines = append(lines, fmt.Sprintf("  - %s (%s), uploaded %s", doc.Filename, doc.Type, doc.Uploaded))
	}

	lines = append(lines,
		"",
		sectionBanner,
		"RESPONSE ANALYSIS",
		sectionBanner,
	)

	response := report.ResponseAnalysis
	lines = append(lines,
		fmt.Sprintf("response_documents_count: %d", response.ResponseDocumentsCount),
		"response_documents:",
	)
	for _, doc := range response.ResponseDocuments {
		lines = append(lines, fmt.Sprintf("  - %s (%s), uploaded %s",
			doc.Filename, doc.SecurityClassification, doc.Uploaded))
	}
	lines = append(lines,
		"ai_analysis_summary:",
		fmt.Sprintf("  key_findings: %s", strings.Join(response.AIAnalysisSummary.KeyFindings, "; ")),
		fmt.Sprintf("  confidence_score: %.2f", response.AIAnalysisSummary.ConfidenceScore),
		fmt.Sprintf("  model_version: %s", response.AIAnalysisSummary.ModelVersion),
	)

	lines = append(lines,
		"",
		sectionBanner,
		"KEY FINDINGS",
		sectionBanner,
	)
	for i, finding := range report.KeyFindings {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, finding))
	}

	lines = append(lines,
		"",
		sectionBanner,
		"RECOMMENDED STRATEGIES",
		sectionBanner,
	)
	for i, strategy := range report.RecommendedStrategies {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, strategy))
	}

	lines = append(lines,
		"",
		sectionBanner,
		"COMPLIANCE CONSIDERATIONS",
		sectionBanner,
	)
	for _, consideration := range report.ComplianceConsiderations {
		lines = append(lines, fmt.Sprintf("- %s", consideration))
	}

	lines = append(lines,
		"",
		sectionBanner,
		"RISK ASSESSMENT",
		sectionBanner,
		fmt.Sprintf("level: %s", report.RiskAssessment.Level),
		fmt.Sprintf("factors: %s", strings.Join(report.RiskAssessment.Factors, "; ")),
		fmt.Sprintf("urgency: %s", report.RiskAssessment.Urgency),
		"",
		sectionBanner,
		"END OF REPORT",
		sectionBanner,
	)

	return strings.Join(lines, "\n")
}

// StructuredMap renders a report as a nested mapping with the report
// timestamp reformatted as ISO-8601. Used by the JSON export and by API
// responses that embed the report.
func StructuredMap(report *models.InvestigationReport) map[string]interface{} {
	m := map[string]interface{}{
		"complaint_id":              report.ComplaintID.String(),
		"report_date":               report.ReportDate.UTC().Format(time.RFC3339),
		"executive_summary":         report.ExecutiveSummary,
		"complaint_details":         report.ComplaintDetails,
		"response_analysis":         report.ResponseAnalysis,
		"key_findings":              report.KeyFindings,
		"recommended_strategies":    report.RecommendedStrategies,
		"compliance_considerations": report.ComplianceConsiderations,
		"risk_assessment":           report.RiskAssessment,
		"generated_by":              report.GeneratedBy,
		"version":                   report.Version,
	}
	if report.ID != nil {
		m["id"] = report.ID.String()
	}
	return m
}

// ExportJSON renders a report as indented JSON.
func ExportJSON(report *models.InvestigationReport) (string, error) {
	data, err := json.MarshalIndent(StructuredMap(report), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal report")
	}
	return string(data), nil
}

// ExportPDF renders a report as a PDF document.
func ExportPDF(report *models.InvestigationReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "INVESTIGATION REPORT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Report Date: %s", report.ReportDate.UTC().Format("2006-01-02 15:04:05 UTC")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Complaint ID: %s", report.ComplaintID))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Generated By: %s", report.GeneratedBy))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Version: %d", report.Version))
	pdf.Ln(10)

	addPDFSection(pdf, "EXECUTIVE SUMMARY", report.ExecutiveSummary)

	details := report.ComplaintDetails
	addPDFSection(pdf, "COMPLAINT DETAILS", strings.Join([]string{
		fmt.Sprintf("Complaint Number: %s", details.ComplaintNumber),
		fmt.Sprintf("Received Date: %s", details.ReceivedDate),
		fmt.Sprintf("Complainant: %s", details.Complainant),
		fmt.Sprintf("Licensee: %s (License: %s)", details.LicenseeName, details.LicenseeLicenseNumber),
		fmt.Sprintf("Description: %s", details.Description),
		fmt.Sprintf("Status: %s", details.Status),
		fmt.Sprintf("Assigned Investigator: %s", details.AssignedInvestigator),
		fmt.Sprintf("Security Classification: %s", details.SecurityClassification),
		fmt.Sprintf("Associated Documents: %d", details.AssociatedDocuments),
	}, "\n"))

	addPDFList(pdf, "KEY FINDINGS", report.KeyFindings, true)
	addPDFList(pdf, "RECOMMENDED STRATEGIES", report.RecommendedStrategies, true)
	addPDFList(pdf, "COMPLIANCE CONSIDERATIONS", report.ComplianceConsiderations, false)

	addPDFSection(pdf, "RISK ASSESSMENT", strings.Join([]string{
		fmt.Sprintf("Level: %s", report.RiskAssessment.Level),
		fmt.Sprintf("Factors: %s", strings.Join(report.RiskAssessment.Factors, "; ")),
		fmt.Sprintf("Urgency: %s", report.RiskAssessment.Urgency),
	}, "\n"))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render PDF")
	}
	return buf.Bytes(), nil
}

func addPDFSection(pdf *gofpdf.Fpdf, title, body string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, body, "", "L", false)
	pdf.Ln(4)
}

func addPDFList(pdf *gofpdf.Fpdf, title string, items []string, numbered bool) {
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	for i, item := range items {
		prefix := "- "
		if numbered {
			prefix = fmt.Sprintf("%d. ", i+1)
		}
		pdf.MultiCell(0, 5, prefix+item, "", "L", false)
	}
	pdf.Ln(4)
}

// ExportXLSX renders a report as a spreadsheet with one sheet per section.
func ExportXLSX(report *models.InvestigationReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	rows := [][]interface{}{
		{"Report Date", report.ReportDate.UTC().Format(time.RFC3339)},
		{"Complaint ID", report.ComplaintID.String()},
		{"Generated By", report.GeneratedBy},
		{"Version", report.Version},
		{"Complaint Number", report.ComplaintDetails.ComplaintNumber},
		{"Licensee", report.ComplaintDetails.LicenseeName},
		{"License Number", report.ComplaintDetails.LicenseeLicenseNumber},
		{"Status", report.ComplaintDetails.Status},
		{"Risk Level", string(report.RiskAssessment.Level)},
		{"Risk Urgency", report.RiskAssessment.Urgency},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build cell reference")
		}
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, errors.Wrap(err, "failed to write summary row")
		}
	}

	sections := []struct {
		name  string
		items []string
	}{
		{"Key Findings", report.KeyFindings},
		{"Recommended Strategies", report.RecommendedStrategies},
		{"Compliance Considerations", report.ComplianceConsiderations},
	}
	for _, section := range sections {
		if _, err := f.NewSheet(section.name); err != nil {
			return nil, errors.Wrapf(err, "failed to create sheet %s", section.name)
		}
		for i, item := range section.items {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, errors.Wrap(err, "failed to build cell reference")
			}
			if err := f.SetCellValue(section.name, cell, item); err != nil {
				return nil, errors.Wrapf(err, "failed to write row to %s", section.name)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render workbook")
	}
	return buf.Bytes(), nil
}
