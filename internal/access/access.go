// Package access implements role-based access control for complaint data.
// The role to permission mapping is built once at init and never mutated.
package access

import "license-investigation/internal/models"

// Role is a user role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleInvestigator Role = "investigator"
	RolePanelMember  Role = "panel_member"
	RoleReviewer     Role = "reviewer"
	RoleAuditor      Role = "auditor"
	RoleReadOnly     Role = "read_only"
)

// Permission is a system permission.
type Permission string

const (
	PermCreateComplaint Permission = "create_complaint"
	PermViewComplaint   Permission = "view_complaint"
	PermEditComplaint   Permission = "edit_complaint"
	PermDeleteComplaint Permission = "delete_complaint"

	PermUploadDocument   Permission = "upload_document"
	PermViewDocument     Permission = "view_document"
	PermDownloadDocument Permission = "download_document"
	PermDeleteDocument   Permission = "delete_document"

	PermRunAnalysis  Permission = "run_analysis"
	PermViewAnalysis Permission = "view_analysis"

	PermGenerateReport Permission = "generate_report"
	PermViewReport     Permission = "view_report"
	PermExportReport   Permission = "export_report"

	PermViewAuditLog   Permission = "view_audit_log"
	PermExportAuditLog Permission = "export_audit_log"

	PermManageUsers    Permission = "manage_users"
	PermManageSettings Permission = "manage_settings"
)

// allPermissions lists every permission in the system; admins hold all of
// them.
var allPermissions = []Permission{
	PermCreateComplaint, PermViewComplaint, PermEditComplaint, PermDeleteComplaint,
	PermUploadDocument, PermViewDocument, PermDownloadDocument, PermDeleteDocument,
	PermRunAnalysis, PermViewAnalysis,
	PermGenerateReport, PermViewReport, PermExportReport,
	PermViewAuditLog, PermExportAuditLog,
	PermManageUsers, PermManageSettings,
}

// rolePermissions is the authoritative role to permission mapping. It is
// populated in init and must not be mutated afterwards.
var rolePermissions map[Role]map[Permission]struct{}

func init() {
	grants := map[Role][]Permission{
		RoleAdmin: allPermissions,
		RoleInvestigator: {
			PermCreateComplaint, PermViewComplaint, PermEditComplaint,
			PermUploadDocument, PermViewDocument, PermDownloadDocument,
			PermRunAnalysis, PermViewAnalysis,
			PermGenerateReport, PermViewReport, PermExportReport,
		},
		RolePanelMember: {
			PermViewComplaint, PermViewDocument, PermViewAnalysis,
			PermViewReport, PermExportReport,
		},
		RoleReviewer: {
			PermViewComplaint, PermViewDocument, PermViewAnalysis, PermViewReport,
		},
		RoleAuditor: {
			PermViewAuditLog, PermExportAuditLog, PermViewComplaint,
		},
		RoleReadOnly: {
			PermViewComplaint, PermViewDocument, PermViewAnalysis, PermViewReport,
		},
	}

	rolePermissions = make(map[Role]map[Permission]struct{}, len(grants))
	for role, perms := range grants {
		set := make(map[Permission]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		rolePermissions[role] = set
	}
}

// HasPermission reports whether a role holds a permission. Unknown roles hold
// nothing.
func HasPermission(role Role, permission Permission) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = perms[permission]
	return ok
}

// CanAccessClassification reports whether a role may access data at the given
// classification. PHI and CFR2 data require admin, investigator or panel
// member; restricted data additionally admits reviewers. Confidential and
// public data are accessible to every authenticated role.
func CanAccessClassification(role Role, classification models.SecurityClassification) bool {
	switch classification {
	case models.ClassificationPHI, models.ClassificationCFR2:
		return role == RoleAdmin || role == RoleInvestigator || role == RolePanelMember
	case models.ClassificationRestricted:
		return role == RoleAdmin || role == RoleInvestigator ||
			role == RolePanelMember || role == RoleReviewer
	default:
		return true
	}
}

// AccessibleClassifications returns every classification a role may access,
// in ascending sensitivity order.
func AccessibleClassifications(role Role) []models.SecurityClassification {
	all := []models.SecurityClassification{
		models.ClassificationPublic,
		models.ClassificationConfidential,
		models.ClassificationRestricted,
		models.ClassificationPHI,
		models.ClassificationCFR2,
	}

	accessible := make([]models.SecurityClassification, 0, len(all))
	for _, classification := range all {
		if CanAccessClassification(role, classification) {
			accessible = append(accessible, classification)
		}
	}
	return accessible
}

// ParseRole validates a role string. Unknown values return false.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	_, ok := rolePermissions[role]
	return role, ok
}
