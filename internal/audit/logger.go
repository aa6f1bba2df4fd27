// Package audit records compliance-relevant actions. The trail is
// append-only; nothing in this service updates or deletes entries.
package audit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/models"
)

// Recorder persists audit entries. Implemented by the audit repository.
type Recorder interface {
	Record(ctx context.Context, entry *models.AuditLog) error
}

// Logger writes audit entries to the recorder and mirrors them to the
// structured log so operators see compliance events without a database query.
type Logger struct {
	recorder Recorder
	logger   *zap.Logger
}

// NewLogger creates an audit logger.
func NewLogger(recorder Recorder, logger *zap.Logger) *Logger {
	return &Logger{
		recorder: recorder,
		logger:   logger.Named("audit"),
	}
}

// Entry carries the caller-supplied fields of an audit event.
type Entry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	UserAgent    string
	Details      models.JSONB
	Success      bool
}

// LogAction records a generic user action.
func (l *Logger) LogAction(ctx context.Context, entry Entry) error {
	record := &models.AuditLog{
		Timestamp:    time.Now().UTC(),
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      entry.Details,
		Success:      entry.Success,
	}
	if entry.IPAddress != "" {
		record.IPAddress = &entry.IPAddress
	}
	if entry.UserAgent != "" {
		record.UserAgent = &entry.UserAgent
	}

	if err := l.recorder.Record(ctx, record); err != nil {
		l.logger.Error("Failed to record audit entry",
			zap.String("action", entry.Action),
			zap.String("user_id", entry.UserID),
			zap.Error(err))
		return errors.Wrap(err, "failed to record audit entry")
	}

	l.logger.Info("Audit event",
		zap.String("user_id", entry.UserID),
		zap.String("action", entry.Action),
		zap.String("resource_type", entry.ResourceType),
		zap.String("resource_id", entry.ResourceID),
		zap.Bool("success", entry.Success))
	return nil
}

// LogDataAccess records read access to a resource.
func (l *Logger) LogDataAccess(ctx context.Context, userID, resourceType, resourceID string) error {
	return l.LogAction(ctx, Entry{
		UserID:       userID,
		Action:       "data_access",
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Success:      true,
	})
}

// LogPHIAccess records access to protected health information. HIPAA requires
// these entries regardless of outcome.
func (l *Logger) LogPHIAccess(ctx context.Context, userID, resourceType, resourceID string, success bool) error {
	return l.LogAction(ctx, Entry{
		UserID:       userID,
		Action:       "phi_access",
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB{"classification": string(models.ClassificationPHI)},
		Success:      success,
	})
}

// LogCFR2Access records access to 42 CFR Part 2 substance-use-disorder
// records.
func (l *Logger) LogCFR2Access(ctx context.Context, userID, resourceType, resourceID string, success bool) error {
	return l.LogAction(ctx, Entry{
		UserID:       userID,
		Action:       "cfr2_access",
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      models.JSONB{"classification": string(models.ClassificationCFR2)},
		Success:      success,
	})
}
