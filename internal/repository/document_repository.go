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

// DocumentRepository handles document-related database operations
type DocumentRepository struct {
	*database.Repository
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.Database, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		Repository: database.NewRepository(db, logger),
	}
}

// Create attaches a document to a complaint
func (r *DocumentRepository) Create(ctx context.Context, complaintID uuid.UUID, req *models.CreateDocumentRequest, uploadedBy string) (*models.Document, error) {
	id := uuid.New()

	document := &models.Document{
		ID:                     &id,
		ComplaintID:            complaintID,
		DocumentType:           req.DocumentType,
		Filename:               req.Filename,
		FilePath:               req.FilePath,
		FileSize:               req.FileSize,
		MimeType:               req.MimeType,
		UploadedBy:             uploadedBy,
		UploadedAt:             time.Now().UTC(),
		SecurityClassification: req.SecurityClassification,
		Encrypted:              req.Encrypted,
		Checksum:               req.Checksum,
	}

	query := `
		INSERT INTO documents (
			id, complaint_id, document_type, filename, file_path, file_size,
			mime_type, uploaded_by, uploaded_at, security_classification,
			encrypted, checksum
		) VALUES (
			:id, :complaint_id, :document_type, :filename, :file_path, :file_size,
			:mime_type, :uploaded_by, :uploaded_at, :security_classification,
			:encrypted, :checksum
		)`

	if _, err := r.DB().NamedExecContext(ctx, query, document); err != nil {
		return nil, errors.Wrap(err, "failed to create document")
	}

	return document, nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	var document models.Document

	query := `
		SELECT id, complaint_id, document_type, filename, file_path, file_size,
			   mime_type, uploaded_by, uploaded_at, security_classification,
			   encrypted, checksum
		FROM documents
		WHERE id = $1`

	err := r.DB().GetContext(ctx, &document, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get document")
	}

	return &document, nil
}

// ListByComplaint retrieves all documents for a complaint in upload order
func (r *DocumentRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.Document, error) {
	documents := []models.Document{}

	query := `
		SELECT id, complaint_id, document_type, filename, file_path, file_size,
			   mime_type, uploaded_by, uploaded_at, security_classification,
			   encrypted, checksum
		FROM documents
		WHERE complaint_id = $1
		ORDER BY uploaded_at ASC`

	if err := r.DB().SelectContext(ctx, &documents, query, complaintID); err != nil {
		return nil, errors.Wrap(err, "failed to list documents")
	}

	return documents, nil
}
