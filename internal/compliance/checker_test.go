package compliance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"license-investigation/internal/models"
)

func testComplaint() *models.Complaint {
	return &models.Complaint{
		ComplaintNumber:        "COMP-2024-0042",
		ReceivedDate:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		LicenseeName:           "Dr. Jane Smith",
		LicenseeLicenseNumber:  "MD-12345",
		ComplaintDescription:   "Alleged improper disclosure of patient records",
		Status:                 models.StatusUnderReview,
		SecurityClassification: models.ClassificationConfidential,
	}
}

func testDocument(class models.SecurityClassification, encrypted bool) models.Document {
	return models.Document{
		DocumentType:           models.DocumentTypeEvidence,
		Filename:               "records.pdf",
		SecurityClassification: class,
		Encrypted:              encrypted,
	}
}

func TestCheckHIPAA(t *testing.T) {
	checker := NewChecker(2555, zap.NewNop())

	t.Run("unencrypted PHI document fails", func(t *testing.T) {
		docs := []models.Document{testDocument(models.ClassificationPHI, false)}

		result := checker.CheckHIPAA(testComplaint(), docs)

		assert.False(t, result.Compliant)
		assert.Equal(t, []string{"PHI documents must be encrypted"}, result.Issues)
		assert.Empty(t, result.Warnings)
	})

	t.Run("multiple unencrypted PHI documents produce one issue", func(t *testing.T) {
		docs := []models.Document{
			testDocument(models.ClassificationPHI, false),
			testDocument(models.ClassificationPHI, false),
			testDocument(models.ClassificationPHI, true),
		}

		result := checker.CheckHIPAA(testComplaint(), docs)

		assert.False(t, result.Compliant)
		assert.Len(t, result.Issues, 1)
	})

	t.Run("encrypted PHI documents pass", func(t *testing.T) {
		docs := []models.Document{
			testDocument(models.ClassificationPHI, true),
			testDocument(models.ClassificationConfidential, false),
		}

		result := checker.CheckHIPAA(testComplaint(), docs)

		assert.True(t, result.Compliant)
		assert.Empty(t, result.Issues)
	})

	t.Run("no PHI documents pass", func(t *testing.T) {
		docs := []models.Document{
			testDocument(models.ClassificationPublic, false),
			testDocument(models.ClassificationRestricted, false),
		}

		result := checker.CheckHIPAA(testComplaint(), docs)

		assert.True(t, result.Compliant)
	})

	t.Run("empty document list passes", func(t *testing.T) {
		result := checker.CheckHIPAA(testComplaint(), nil)

		assert.True(t, result.Compliant)
		assert.Empty(t, result.Issues)
		assert.Empty(t, result.Warnings)
	})
}

func TestCheckCFR2(t *testing.T) {
	checker := NewChecker(2555, zap.NewNop())

	t.Run("unencrypted CFR2 document fails with consent warning", func(t *testing.T) {
		docs := []models.Document{testDocument(models.ClassificationCFR2, false)}

		result := checker.CheckCFR2(testComplaint(), docs)

		assert.False(t, result.Compliant)
		assert.Equal(t, []string{"42 CFR Part 2 documents must be encrypted"}, result.Issues)
		assert.Equal(t, []string{"Verify written consent for 42 CFR Part 2 disclosures"}, result.Warnings)
	})

	t.Run("encrypted CFR2 documents pass but still warn", func(t *testing.T) {
		docs := []models.Document{testDocument(models.ClassificationCFR2, true)}

		result := checker.CheckCFR2(testComplaint(), docs)

		assert.True(t, result.Compliant)
		assert.Empty(t, result.Issues)
		assert.Equal(t, []string{"Verify written consent for 42 CFR Part 2 disclosures"}, result.Warnings)
	})

	t.Run("no CFR2 documents produce no warning", func(t *testing.T) {
		docs := []models.Document{
			testDocument(models.ClassificationPHI, false),
			testDocument(models.ClassificationConfidential, true),
		}

		result := checker.CheckCFR2(testComplaint(), docs)

		assert.True(t, result.Compliant)
		assert.Empty(t, result.Issues)
		assert.Empty(t, result.Warnings)
	})
}

func TestCheckStateRecordsLaw(t *testing.T) {
	t.Run("complete complaint with sufficient retention passes", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())

		result := checker.CheckStateRecordsLaw(testComplaint())

		assert.True(t, result.Compliant)
		assert.Empty(t, result.Issues)
		assert.Empty(t, result.Warnings)
	})

	t.Run("short retention warns with configured value", func(t *testing.T) {
		checker := NewChecker(365, zap.NewNop())

		result := checker.CheckStateRecordsLaw(testComplaint())

		assert.True(t, result.Compliant)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "Record retention set to 365 days, verify compliance with state law", result.Warnings[0])
	})

	t.Run("retention exactly at threshold does not warn", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())

		result := checker.CheckStateRecordsLaw(testComplaint())

		assert.Empty(t, result.Warnings)
	})

	t.Run("missing fields reported individually", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())
		complaint := testComplaint()
		complaint.LicenseeName = ""
		complaint.ComplaintDescription = ""

		result := checker.CheckStateRecordsLaw(complaint)

		assert.False(t, result.Compliant)
		assert.Equal(t, []string{
			"Missing required field: licensee_name",
			"Missing required field: complaint_description",
		}, result.Issues)
	})

	t.Run("all fields missing", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())

		result := checker.CheckStateRecordsLaw(&models.Complaint{})

		assert.Equal(t, []string{
			"Missing required field: complaint_number",
			"Missing required field: licensee_name",
			"Missing required field: licensee_license_number",
			"Missing required field: complaint_description",
		}, result.Issues)
	})
}

func TestComprehensiveCheck(t *testing.T) {
	t.Run("compliant across all rule sets", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())
		docs := []models.Document{testDocument(models.ClassificationPHI, true)}

		result := checker.ComprehensiveCheck(testComplaint(), docs)

		assert.True(t, result.OverallCompliant)
		assert.True(t, result.HIPAA.Compliant)
		assert.True(t, result.CFR2.Compliant)
		assert.True(t, result.StateRecordsLaw.Compliant)
		assert.Empty(t, result.AllIssues)
		assert.Empty(t, result.AllWarnings)
	})

	t.Run("single failing rule set fails overall", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())
		docs := []models.Document{testDocument(models.ClassificationPHI, false)}

		result := checker.ComprehensiveCheck(testComplaint(), docs)

		assert.False(t, result.OverallCompliant)
		assert.False(t, result.HIPAA.Compliant)
		assert.True(t, result.CFR2.Compliant)
		assert.True(t, result.StateRecordsLaw.Compliant)
	})

	t.Run("issues and warnings concatenated in rule set order", func(t *testing.T) {
		checker := NewChecker(100, zap.NewNop())
		complaint := testComplaint()
		complaint.ComplaintNumber = ""
		docs := []models.Document{
			testDocument(models.ClassificationPHI, false),
			testDocument(models.ClassificationCFR2, false),
		}

		result := checker.ComprehensiveCheck(complaint, docs)

		assert.False(t, result.OverallCompliant)
		assert.Equal(t, []string{
			"PHI documents must be encrypted",
			"42 CFR Part 2 documents must be encrypted",
			"Missing required field: complaint_number",
		}, result.AllIssues)
		assert.Equal(t, []string{
			"Verify written consent for 42 CFR Part 2 disclosures",
			fmt.Sprintf("Record retention set to %d days, verify compliance with state law", 100),
		}, result.AllWarnings)
	})

	t.Run("per rule set results preserved", func(t *testing.T) {
		checker := NewChecker(2555, zap.NewNop())
		docs := []models.Document{testDocument(models.ClassificationCFR2, true)}

		result := checker.ComprehensiveCheck(testComplaint(), docs)

		assert.True(t, result.OverallCompliant)
		assert.Equal(t, []string{"Verify written consent for 42 CFR Part 2 disclosures"}, result.CFR2.Warnings)
		assert.Equal(t, result.CFR2.Warnings, result.AllWarnings)
	})
}
