package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus tracks the lifecycle of a complaint investigation.
type ComplaintStatus string

const (
	StatusReceived                ComplaintStatus = "received"
	StatusUnderReview             ComplaintStatus = "under_review"
	StatusInvestigationInProgress ComplaintStatus = "investigation_in_progress"
	StatusAwaitingResponse        ComplaintStatus = "awaiting_response"
	StatusAnalysisComplete        ComplaintStatus = "analysis_complete"
	StatusReportGenerated         ComplaintStatus = "report_generated"
	StatusClosed                  ComplaintStatus = "closed"
)

// DocumentType categorizes documents attached to a complaint.
type DocumentType string

const (
	DocumentTypeComplaint      DocumentType = "complaint"
	DocumentTypeResponse       DocumentType = "response"
	DocumentTypeEvidence       DocumentType = "evidence"
	DocumentTypeCorrespondence DocumentType = "correspondence"
	DocumentTypeReport         DocumentType = "report"
	DocumentTypeOther          DocumentType = "other"
)

// SecurityClassification is the sensitivity level of a record. PHI and CFR2
// carry regulatory handling requirements beyond ordinary confidentiality.
type SecurityClassification string

const (
	ClassificationPublic       SecurityClassification = "public"
	ClassificationConfidential SecurityClassification = "confidential"
	ClassificationRestricted   SecurityClassification = "restricted"
	ClassificationPHI          SecurityClassification = "phi"
	ClassificationCFR2         SecurityClassification = "cfr2"
)

// RiskLevel is produced by the AI analysis pipeline.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Complaint represents a complaint filed against a licensed professional.
// ComplaintNumber, LicenseeName, LicenseeLicenseNumber and
// ComplaintDescription are required for a persisted complaint; the
// state-records-law check re-validates them for records sourced outside this
// service.
type Complaint struct {
	ID                     *uuid.UUID             `json:"id,omitempty" db:"id"`
	ComplaintNumber        string                 `json:"complaint_number" db:"complaint_number" validate:"required"`
	ReceivedDate           time.Time              `json:"received_date" db:"received_date" validate:"required"`
	ComplainantName        *string                `json:"complainant_name,omitempty" db:"complainant_name"`
	LicenseeName           string                 `json:"licensee_name" db:"licensee_name" validate:"required"`
	LicenseeLicenseNumber  string                 `json:"licensee_license_number" db:"licensee_license_number" validate:"required"`
	ComplaintDescription   string                 `json:"complaint_description" db:"complaint_description" validate:"required"`
	Status                 ComplaintStatus        `json:"status" db:"status"`
	AssignedInvestigator   *string                `json:"assigned_investigator,omitempty" db:"assigned_investigator"`
	SecurityClassification SecurityClassification `json:"security_classification" db:"security_classification"`
	CreatedAt              time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at" db:"updated_at"`
}

// Document is a file attached to a complaint. PHI- and CFR2-classified
// documents must be stored encrypted; the compliance checker flags violations
// rather than rejecting the record.
type Document struct {
	ID                     *uuid.UUID             `json:"id,omitempty" db:"id"`
	ComplaintID            uuid.UUID              `json:"complaint_id" db:"complaint_id" validate:"required"`
	DocumentType           DocumentType           `json:"document_type" db:"document_type" validate:"required"`
	Filename               string                 `json:"filename" db:"filename" validate:"required"`
	FilePath               string                 `json:"file_path" db:"file_path"`
	FileSize               int64                  `json:"file_size" db:"file_size"`
	MimeType               string                 `json:"mime_type" db:"mime_type"`
	UploadedBy             string                 `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt             time.Time              `json:"uploaded_at" db:"uploaded_at"`
	SecurityClassification SecurityClassification `json:"security_classification" db:"security_classification"`
	Encrypted              bool                   `json:"encrypted" db:"encrypted"`
	Checksum               *string                `json:"checksum,omitempty" db:"checksum"`
}

// RiskAssessment is the risk component of an AI analysis.
type RiskAssessment struct {
	Level   RiskLevel `json:"level,omitempty"`
	Factors []string  `json:"factors,omitempty"`
	Urgency string    `json:"urgency,omitempty"`
}

// IsZero reports whether no risk information was produced.
func (r RiskAssessment) IsZero() bool {
	return r.Level == "" && len(r.Factors) == 0 && r.Urgency == ""
}

func (r RiskAssessment) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RiskAssessment) Scan(value interface{}) error {
	if value == nil {
		*r = RiskAssessment{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), r)
	}
	return json.Unmarshal(bytes, r)
}

// AIAnalysis holds the structured findings extracted from a text-generation
// pass over a complaint and its response documents. Immutable once produced;
// re-analysis creates a new instance.
type AIAnalysis struct {
	ID                    *uuid.UUID     `json:"id,omitempty" db:"id"`
	ComplaintID           uuid.UUID      `json:"complaint_id" db:"complaint_id"`
	AnalysisDate          time.Time      `json:"analysis_date" db:"analysis_date"`
	KeyFindings           StringSlice    `json:"key_findings" db:"key_findings"`
	RecommendedStrategies StringSlice    `json:"recommended_strategies" db:"recommended_strategies"`
	RiskAssessment        RiskAssessment `json:"risk_assessment" db:"risk_assessment"`
	ComplianceNotes       StringSlice    `json:"compliance_notes" db:"compliance_notes"`
	ConfidenceScore       float64        `json:"confidence_score" db:"confidence_score" validate:"gte=0,lte=1"`
	ModelVersion          string         `json:"model_version" db:"model_version"`
}

// DocumentRef is a display-friendly reference to a complaint document used in
// report bodies.
type DocumentRef struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Uploaded string `json:"uploaded"`
}

// ResponseDocumentRef is a display-friendly reference to a licensee response
// document.
type ResponseDocumentRef struct {
	Filename               string `json:"filename"`
	Uploaded               string `json:"uploaded"`
	SecurityClassification string `json:"security_classification"`
}

// ComplaintDetails is the structured complaint section of a report. Field
// order is a compatibility contract for the plain-text export.
type ComplaintDetails struct {
	ComplaintNumber        string        `json:"complaint_number"`
	ReceivedDate           string        `json:"received_date"`
	Complainant            string        `json:"complainant"`
	LicenseeName           string        `json:"licensee_name"`
	LicenseeLicenseNumber  string        `json:"licensee_license_number"`
	Description            string        `json:"description"`
	Status                 string        `json:"status"`
	AssignedInvestigator   string        `json:"assigned_investigator"`
	SecurityClassification string        `json:"security_classification"`
	AssociatedDocuments    int           `json:"associated_documents"`
	DocumentList           []DocumentRef `json:"document_list"`
}

func (d ComplaintDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *ComplaintDetails) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), d)
	}
	return json.Unmarshal(bytes, d)
}

// AnalysisSummary is the nested AI summary inside the response-analysis
// section.
type AnalysisSummary struct {
	KeyFindings     []string `json:"key_findings"`
	ConfidenceScore float64  `json:"confidence_score"`
	ModelVersion    string   `json:"model_version"`
}

// ResponseAnalysis is the structured response section of a report. Field order
// is a compatibility contract for the plain-text export.
type ResponseAnalysis struct {
	ResponseDocumentsCount int                   `json:"response_documents_count"`
	ResponseDocuments      []ResponseDocumentRef `json:"response_documents"`
	AIAnalysisSummary      AnalysisSummary       `json:"ai_analysis_summary"`
}

func (r ResponseAnalysis) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *ResponseAnalysis) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), r)
	}
	return json.Unmarshal(bytes, r)
}

// InvestigationReport is the panel-facing report assembled from a complaint,
// its documents, an AI analysis and the aggregated compliance verdict.
// Reports are immutable snapshots; regeneration produces a new version.
type InvestigationReport struct {
	ID                       *uuid.UUID       `json:"id,omitempty" db:"id"`
	ComplaintID              uuid.UUID        `json:"complaint_id" db:"complaint_id"`
	ReportDate               time.Time        `json:"report_date" db:"report_date"`
	ExecutiveSummary         string           `json:"executive_summary" db:"executive_summary"`
	ComplaintDetails         ComplaintDetails `json:"complaint_details" db:"complaint_details"`
	ResponseAnalysis         ResponseAnalysis `json:"response_analysis" db:"response_analysis"`
	KeyFindings              StringSlice      `json:"key_findings" db:"key_findings"`
	RecommendedStrategies    StringSlice      `json:"recommended_strategies" db:"recommended_strategies"`
	ComplianceConsiderations StringSlice      `json:"compliance_considerations" db:"compliance_considerations"`
	RiskAssessment           RiskAssessment   `json:"risk_assessment" db:"risk_assessment"`
	GeneratedBy              string           `json:"generated_by" db:"generated_by"`
	Version                  int              `json:"version" db:"version"`
}

// AuditLog is an append-only record of a compliance-relevant action. Entries
// are never mutated or deleted by this service; retention is an external
// policy concern.
type AuditLog struct {
	ID           *uuid.UUID `json:"id,omitempty" db:"id"`
	Timestamp    time.Time  `json:"timestamp" db:"timestamp"`
	UserID       string     `json:"user_id" db:"user_id" validate:"required"`
	Action       string     `json:"action" db:"action" validate:"required"`
	ResourceType string     `json:"resource_type" db:"resource_type" validate:"required"`
	ResourceID   string     `json:"resource_id" db:"resource_id"`
	IPAddress    *string    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent    *string    `json:"user_agent,omitempty" db:"user_agent"`
	Details      JSONB      `json:"details" db:"details"`
	Success      bool       `json:"success" db:"success"`
}

// Custom types for database handling

// JSONB stores a free-form key-value mapping as a jsonb column.
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), j)
	}
	return json.Unmarshal(bytes, j)
}

// StringSlice stores an ordered list of strings as a jsonb column. Ordering
// is significant for findings, strategies and compliance notes.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal([]string(s))
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return json.Unmarshal([]byte(value.(string)), s)
	}
	return json.Unmarshal(bytes, s)
}

// Request and response DTOs

type CreateComplaintRequest struct {
	ComplaintNumber        string                 `json:"complaint_number" validate:"required"`
	ReceivedDate           time.Time              `json:"received_date" validate:"required"`
	ComplainantName        *string                `json:"complainant_name,omitempty"`
	LicenseeName           string                 `json:"licensee_name" validate:"required"`
	LicenseeLicenseNumber  string                 `json:"licensee_license_number" validate:"required"`
	ComplaintDescription   string                 `json:"complaint_description" validate:"required"`
	SecurityClassification SecurityClassification `json:"security_classification,omitempty"`
}

type CreateDocumentRequest struct {
	DocumentType           DocumentType           `json:"document_type" validate:"required"`
	Filename               string                 `json:"filename" validate:"required"`
	FilePath               string                 `json:"file_path"`
	FileSize               int64                  `json:"file_size"`
	MimeType               string                 `json:"mime_type"`
	SecurityClassification SecurityClassification `json:"security_classification" validate:"required"`
	Encrypted              bool                   `json:"encrypted"`
	Checksum               *string                `json:"checksum,omitempty"`
}

type ListAuditLogsResponse struct {
	Logs   []AuditLog `json:"logs"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
