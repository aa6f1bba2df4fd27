package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"license-investigation/internal/models"
)

func TestHasPermission(t *testing.T) {
	t.Run("admin holds every permission", func(t *testing.T) {
		for _, perm := range allPermissions {
			assert.True(t, HasPermission(RoleAdmin, perm), "admin missing %s", perm)
		}
	})

	t.Run("exhaustive role permission matrix", func(t *testing.T) {
		expected := map[Role]map[Permission]bool{
			RoleInvestigator: {
				PermCreateComplaint: true, PermViewComplaint: true, PermEditComplaint: true,
				PermDeleteComplaint: false,
				PermUploadDocument:  true, PermViewDocument: true, PermDownloadDocument: true,
				PermDeleteDocument: false,
				PermRunAnalysis:    true, PermViewAnalysis: true,
				PermGenerateReport: true, PermViewReport: true, PermExportReport: true,
				PermViewAuditLog: false, PermExportAuditLog: false,
				PermManageUsers: false, PermManageSettings: false,
			},
			RolePanelMember: {
				PermCreateComplaint: false, PermViewComplaint: true, PermEditComplaint: false,
				PermDeleteComplaint: false,
				PermUploadDocument:  false, PermViewDocument: true, PermDownloadDocument: false,
				PermDeleteDocument: false,
				PermRunAnalysis:    false, PermViewAnalysis: true,
				PermGenerateReport: false, PermViewReport: true, PermExportReport: true,
				PermViewAuditLog: false, PermExportAuditLog: false,
				PermManageUsers: false, PermManageSettings: false,
			},
			RoleReviewer: {
				PermCreateComplaint: false, PermViewComplaint: true, PermEditComplaint: false,
				PermDeleteComplaint: false,
				PermUploadDocument:  false, PermViewDocument: true, PermDownloadDocument: false,
				PermDeleteDocument: false,
				PermRunAnalysis:    false, PermViewAnalysis: true,
				PermGenerateReport: false, PermViewReport: true, PermExportReport: false,
				PermViewAuditLog: false, PermExportAuditLog: false,
				PermManageUsers: false, PermManageSettings: false,
			},
			RoleAuditor: {
				PermCreateComplaint: false, PermViewComplaint: true, PermEditComplaint: false,
				PermDeleteComplaint: false,
				PermUploadDocument:  false, PermViewDocument: false, PermDownloadDocument: false,
				PermDeleteDocument: false,
				PermRunAnalysis:    false, PermViewAnalysis: false,
				PermGenerateReport: false, PermViewReport: false, PermExportReport: false,
				PermViewAuditLog: true, PermExportAuditLog: true,
				PermManageUsers: false, PermManageSettings: false,
			},
			RoleReadOnly: {
				PermCreateComplaint: false, PermViewComplaint: true, PermEditComplaint: false,
				PermDeleteComplaint: false,
				PermUploadDocument:  false, PermViewDocument: true, PermDownloadDocument: false,
				PermDeleteDocument: false,
				PermRunAnalysis:    false, PermViewAnalysis: true,
				PermGenerateReport: false, PermViewReport: true, PermExportReport: false,
				PermViewAuditLog: false, PermExportAuditLog: false,
				PermManageUsers: false, PermManageSettings: false,
			},
		}

		for role, perms := range expected {
			for perm, want := range perms {
				assert.Equal(t, want, HasPermission(role, perm), "%s / %s", role, perm)
			}
		}
	})

	t.Run("unknown role holds nothing", func(t *testing.T) {
		assert.False(t, HasPermission(Role("intern"), PermViewComplaint))
	})
}

func TestCanAccessClassification(t *testing.T) {
	cases := []struct {
		role           Role
		classification models.SecurityClassification
		want           bool
	}{
		{RoleAdmin, models.ClassificationPHI, true},
		{RoleAdmin, models.ClassificationCFR2, true},
		{RoleInvestigator, models.ClassificationPHI, true},
		{RolePanelMember, models.ClassificationCFR2, true},
		{RoleReviewer, models.ClassificationPHI, false},
		{RoleAuditor, models.ClassificationCFR2, false},
		{RoleReadOnly, models.ClassificationPHI, false},
		{RoleReviewer, models.ClassificationRestricted, true},
		{RoleAuditor, models.ClassificationRestricted, false},
		{RoleReadOnly, models.ClassificationRestricted, false},
		{RoleReadOnly, models.ClassificationConfidential, true},
		{RoleAuditor, models.ClassificationPublic, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanAccessClassification(tc.role, tc.classification),
			"%s / %s", tc.role, tc.classification)
	}
}

func TestAccessibleClassifications(t *testing.T) {
	assert.Equal(t, []models.SecurityClassification{
		models.ClassificationPublic,
		models.ClassificationConfidential,
		models.ClassificationRestricted,
		models.ClassificationPHI,
		models.ClassificationCFR2,
	}, AccessibleClassifications(RoleAdmin))

	assert.Equal(t, []models.SecurityClassification{
		models.ClassificationPublic,
		models.ClassificationConfidential,
		models.ClassificationRestricted,
	}, AccessibleClassifications(RoleReviewer))

	assert.Equal(t, []models.SecurityClassification{
		models.ClassificationPublic,
		models.ClassificationConfidential,
	}, AccessibleClassifications(RoleReadOnly))
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("investigator")
	assert.True(t, ok)
	assert.Equal(t, RoleInvestigator, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}
