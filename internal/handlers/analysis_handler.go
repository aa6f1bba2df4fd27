package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"license-investigation/internal/analysis"
	"license-investigation/internal/audit"
	"license-investigation/internal/models"
	"license-investigation/internal/repository"
)

type AnalysisHandler struct {
	complaintRepo *repository.ComplaintRepository
	documentRepo  *repository.DocumentRepository
	analysisRepo  *repository.AnalysisRepository
	analyzer      *analysis.Analyzer
	auditLogger   *audit.Logger
	logger        *zap.Logger
}

func NewAnalysisHandler(
	complaintRepo *repository.ComplaintRepository,
	documentRepo *repository.DocumentRepository,
	analysisRepo *repository.AnalysisRepository,
	analyzer *analysis.Analyzer,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		complaintRepo: complaintRepo,
		documentRepo:  documentRepo,
		analysisRepo:  analysisRepo,
		analyzer:      analyzer,
		auditLogger:   auditLogger,
		logger:        logger.Named("analysis_handler"),
	}
}

func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	ctx := c.Request.Context()

	complaint, err := h.complaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to get complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaint"})
		return
	}

	documents, err := h.documentRepo.ListByComplaint(ctx, complaintID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	var complaintDocs, responseDocs []models.Document
	for _, doc := range documents {
		switch doc.DocumentType {
		case models.DocumentTypeResponse:
			responseDocs = append(responseDocs, doc)
		default:
			complaintDocs = append(complaintDocs, doc)
		}
	}

	result, err := h.analyzer.AnalyzeComplaint(ctx, complaint, complaintDocs, responseDocs)
	if err != nil {
		h.logger.Error("Analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Analysis failed"})
		return
	}

	if err := h.analysisRepo.Create(ctx, result); err != nil {
		h.logger.Error("Failed to persist analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist analysis"})
		return
	}

	if err := h.complaintRepo.UpdateStatus(ctx, complaintID, models.StatusAnalysisComplete); err != nil {
		h.logger.Warn("Failed to update complaint status", zap.Error(err))
	}

	if err := h.auditLogger.LogAction(ctx, audit.Entry{
		UserID:       currentUserID(c),
		Action:       "run_analysis",
		ResourceType: "complaint",
		ResourceID:   complaintID.String(),
		IPAddress:    c.ClientIP(),
		Details:      models.JSONB{"model_version": result.ModelVersion},
		Success:      true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, result)
}

// RecommendStrategies produces additional information-gathering strategies
// from the latest analysis and the complaint's evidence.
func (h *AnalysisHandler) RecommendStrategies(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	ctx := c.Request.Context()

	complaint, err := h.complaintRepo.GetByID(ctx, complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to get complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaint"})
		return
	}

	latest, err := h.analysisRepo.GetLatestByComplaint(ctx, complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusConflict, gin.H{"error": "Complaint has no analysis; run analysis first"})
			return
		}
		h.logger.Error("Failed to get analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	documents, err := h.documentRepo.ListByComplaint(ctx, complaintID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	strategies, err := h.analyzer.RecommendStrategies(ctx, complaint, latest.KeyFindings, documents)
	if err != nil {
		h.logger.Error("Strategy generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Strategy generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}

func (h *AnalysisHandler) GetLatestAnalysis(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	result, err := h.analysisRepo.GetLatestByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "No analysis found for complaint"})
			return
		}
		h.logger.Error("Failed to get analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	c.JSON(http.StatusOK, result)
}
