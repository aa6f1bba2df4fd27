package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/database"
	"license-investigation/internal/models"
)

// ReportRepository handles investigation report database operations
type ReportRepository struct {
	*database.Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *database.Database, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		Repository: database.NewRepository(db, logger),
	}
}

// Create persists an investigation report. The version is set by the caller;
// regeneration for the same complaint inserts a new row with the next
// version.
func (r *ReportRepository) Create(ctx context.Context, report *models.InvestigationReport) error {
	if report.ID == nil {
		id := uuid.New()
		report.ID = &id
	}

	query := `
		INSERT INTO investigation_reports (
			id, complaint_id, report_date, executive_summary, complaint_details,
			response_analysis, key_findings, recommended_strategies,
			compliance_considerations, risk_assessment, generated_by, version
		) VALUES (
			:id, :complaint_id, :report_date, :executive_summary, :complaint_details,
			:response_analysis, :key_findings, :recommended_strategies,
			:compliance_considerations, :risk_assessment, :generated_by, :version
		)`

	if _, err := r.DB().NamedExecContext(ctx, query, report); err != nil {
		return errors.Wrap(err, "failed to create report")
	}

	return nil
}

// GetByID retrieves a report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.InvestigationReport, error) {
	var report models.InvestigationReport

	query := `
		SELECT id, complaint_id, report_date, executive_summary, complaint_details,
			   response_analysis, key_findings, recommended_strategies,
			   compliance_considerations, risk_assessment, generated_by, version
		FROM investigation_reports
		WHERE id = $1`

	err := r.DB().GetContext(ctx, &report, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get report")
	}

	return &report, nil
}

// NextVersion returns the next report version for a complaint
func (r *ReportRepository) NextVersion(ctx context.Context, complaintID uuid.UUID) (int, error) {
	var current sql.NullInt64

	query := `SELECT MAX(version) FROM investigation_reports WHERE complaint_id = $1`

	if err := r.DB().GetContext(ctx, &current, query, complaintID); err != nil {
		return 0, errors.Wrap(err, "failed to get report version")
	}

	if !current.Valid {
		return 1, nil
	}
	return int(current.Int64) + 1, nil
}

// ListByComplaint retrieves all report versions for a complaint, newest first
func (r *ReportRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.InvestigationReport, error) {
	reports := []models.InvestigationReport{}

	query := `
		SELECT id, complaint_id, report_date, executive_summary, complaint_details,
			   response_analysis, key_findings, recommended_strategies,
			   compliance_considerations, risk_assessment, generated_by, version
		FROM investigation_reports
		WHERE complaint_id = $1
		ORDER BY version DESC`

	if err := r.DB().SelectContext(ctx, &reports, query, complaintID); err != nil {
		return nil, errors.Wrap(err, "failed to list reports")
	}

	return reports, nil
}
