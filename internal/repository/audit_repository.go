package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/database"
	"license-investigation/internal/models"
)

// AuditRepository handles audit log database operations. The audit trail is
// append-only; no update or delete operations exist.
type AuditRepository struct {
	*database.Repository
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.Database, logger *zap.Logger) *AuditRepository {
	return &AuditRepository{
		Repository: database.NewRepository(db, logger),
	}
}

// Record appends an audit entry
func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	if entry.ID == nil {
		id := uuid.New()
		entry.ID = &id
	}

	query := `
		INSERT INTO audit_logs (
			id, timestamp, user_id, action, resource_type, resource_id,
			ip_address, user_agent, details, success
		) VALUES (
			:id, :timestamp, :user_id, :action, :resource_type, :resource_id,
			:ip_address, :user_agent, :details, :success
		)`

	if _, err := r.DB().NamedExecContext(ctx, query, entry); err != nil {
		return errors.Wrap(err, "failed to record audit entry")
	}

	return nil
}

// List retrieves audit entries, newest first
func (r *AuditRepository) List(ctx context.Context, page database.Paginate) ([]models.AuditLog, int64, error) {
	logs := []models.AuditLog{}

	query := `
		SELECT id, timestamp, user_id, action, resource_type, resource_id,
			   ip_address, user_agent, details, success
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2`

	if err := r.DB().SelectContext(ctx, &logs, query, page.Limit, page.Offset); err != nil {
		return nil, 0, errors.Wrap(err, "failed to list audit logs")
	}

	var total int64
	if err := r.DB().GetContext(ctx, &total, `SELECT COUNT(*) FROM audit_logs`); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count audit logs")
	}

	return logs, total, nil
}

// ListByResource retrieves the audit trail for a single resource
func (r *AuditRepository) ListByResource(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}

	query := `
		SELECT id, timestamp, user_id, action, resource_type, resource_id,
			   ip_address, user_agent, details, success
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY timestamp DESC`

	if err := r.DB().SelectContext(ctx, &logs, query, resourceType, resourceID); err != nil {
		return nil, errors.Wrap(err, "failed to list audit logs for resource")
	}

	return logs, nil
}
