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

// AnalysisRepository handles AI analysis database operations
type AnalysisRepository struct {
	*database.Repository
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *database.Database, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		Repository: database.NewRepository(db, logger),
	}
}

// Create persists an AI analysis. Analyses are immutable; a re-run inserts a
// new row.
func (r *AnalysisRepository) Create(ctx context.Context, analysis *models.AIAnalysis) error {
	if analysis.ID == nil {
		id := uuid.New()
		analysis.ID = &id
	}

	query := `
		INSERT INTO ai_analyses (
			id, complaint_id, analysis_date, key_findings, recommended_strategies,
			risk_assessment, compliance_notes, confidence_score, model_version
		) VALUES (
			:id, :complaint_id, :analysis_date, :key_findings, :recommended_strategies,
			:risk_assessment, :compliance_notes, :confidence_score, :model_version
		)`

	if _, err := r.DB().NamedExecContext(ctx, query, analysis); err != nil {
		return errors.Wrap(err, "failed to create analysis")
	}

	return nil
}

// GetLatestByComplaint retrieves the most recent analysis for a complaint
func (r *AnalysisRepository) GetLatestByComplaint(ctx context.Context, complaintID uuid.UUID) (*models.AIAnalysis, error) {
	var analysis models.AIAnalysis

	query := `
		SELECT id, complaint_id, analysis_date, key_findings, recommended_strategies,
			   risk_assessment, compliance_notes, confidence_score, model_version
		FROM ai_analyses
		WHERE complaint_id = $1
		ORDER BY analysis_date DESC
		LIMIT 1`

	err := r.DB().GetContext(ctx, &analysis, query, complaintID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get analysis")
	}

	return &analysis, nil
}
