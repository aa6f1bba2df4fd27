package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/database"
	"license-investigation/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ComplaintRepository handles complaint-related database operations
type ComplaintRepository struct {
	*database.Repository
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *database.Database, logger *zap.Logger) *ComplaintRepository {
	return &ComplaintRepository{
		Repository: database.NewRepository(db, logger),
	}
}

// Create creates a new complaint
func (r *ComplaintRepository) Create(ctx context.Context, req *models.CreateComplaintRequest) (*models.Complaint, error) {
	id := uuid.New()
	now := time.Now().UTC()

	classification := req.SecurityClassification
	if classification == "" {
		classification = models.ClassificationConfidential
	}

	complaint := &models.Complaint{
		ID:                     &id,
		ComplaintNumber:        req.ComplaintNumber,
		ReceivedDate:           req.ReceivedDate,
		ComplainantName:        req.ComplainantName,
		LicenseeName:           req.LicenseeName,
		LicenseeLicenseNumber:  req.LicenseeLicenseNumber,
		ComplaintDescription:   req.ComplaintDescription,
		Status:                 models.StatusReceived,
		SecurityClassification: classification,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	query := `
		INSERT INTO complaints (
			id, complaint_number, received_date, complainant_name, licensee_name,
			licensee_license_number, complaint_description, status,
			assigned_investigator, security_classification, created_at, updated_at
		) VALUES (
			:id, :complaint_number, :received_date, :complainant_name, :licensee_name,
			:licensee_license_number, :complaint_description, :status,
			:assigned_investigator, :security_classification, :created_at, :updated_at
		)`

	if _, err := r.DB().NamedExecContext(ctx, query, complaint); err != nil {
		return nil, errors.Wrap(err, "failed to create complaint")
	}

	return complaint, nil
}

// GetByID retrieves a complaint by ID
func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint

	query := `
		SELECT id, complaint_number, received_date, complainant_name, licensee_name,
			   licensee_license_number, complaint_description, status,
			   assigned_investigator, security_classification, created_at, updated_at
		FROM complaints
		WHERE id = $1`

	err := r.DB().GetContext(ctx, &complaint, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get complaint")
	}

	return &complaint, nil
}

// List retrieves complaints ordered by received date, newest first
func (r *ComplaintRepository) List(ctx context.Context, page database.Paginate) ([]models.Complaint, error) {
	complaints := []models.Complaint{}

	query := `
		SELECT id, complaint_number, received_date, complainant_name, licensee_name,
			   licensee_license_number, complaint_description, status,
			   assigned_investigator, security_classification, created_at, updated_at
		FROM complaints
		ORDER BY received_date DESC
		LIMIT $1 OFFSET $2`

	if err := r.DB().SelectContext(ctx, &complaints, query, page.Limit, page.Offset); err != nil {
		return nil, errors.Wrap(err, "failed to list complaints")
	}

	return complaints, nil
}

// UpdateStatus updates a complaint's status
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ComplaintStatus) error {
	query := `UPDATE complaints SET status = $1, updated_at = $2 WHERE id = $3`

	result, err := r.DB().ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "failed to update complaint status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// AssignInvestigator assigns an investigator to a complaint
func (r *ComplaintRepository) AssignInvestigator(ctx context.Context, id uuid.UUID, investigator string) error {
	query := `UPDATE complaints SET assigned_investigator = $1, updated_at = $2 WHERE id = $3`

	result, err := r.DB().ExecContext(ctx, query, investigator, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "failed to assign investigator")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to check update result")
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
