package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"license-investigation/internal/audit"
	"license-investigation/internal/models"
	"license-investigation/internal/reports"
	"license-investigation/internal/repository"
)

type ReportHandler struct {
	complaintRepo *repository.ComplaintRepository
	documentRepo  *repository.DocumentRepository
	analysisRepo  *repository.AnalysisRepository
	reportRepo    *repository.ReportRepository
	generator     *reports.Generator
	auditLogger   *audit.Logger
	logger        *zap.Logger
}

func NewReportHandler(
	complaintRepo *repository.ComplaintRepository,
	documentRepo *repository.DocumentRepository,
	analysisRepo *repository.AnalysisRepository,
	reportRepo *repository.ReportRepository,
	generator *reports.Generator,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		complaintRepo: complaintRepo,
		documentRepo:  documentRepo,
		analysisRepo:  analysisRepo,
		reportRepo:    reportRepo,
		generator:     generator,
		auditLogger:   auditLogger,
		logger:        logger.Named("report_handler"),
	}
}

func (h *ReportHandler) GenerateReport(c *gin.Context) {
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

	aiAnalysis, err := h.analysisRepo.GetLatestByComplaint(ctx, complaintID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusConflict, gin.H{"error": "Complaint has no analysis; run analysis first"})
			return
		}
		h.logger.Error("Failed to get analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
		return
	}

	report := h.generator.GeneratePanelReport(complaint, documents, aiAnalysis, currentUserID(c))

	version, err := h.reportRepo.NextVersion(ctx, complaintID)
	if err != nil {
		h.logger.Error("Failed to determine report version", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to determine report version"})
		return
	}
	report.Version = version

	if err := h.reportRepo.Create(ctx, report); err != nil {
		h.logger.Error("Failed to persist report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist report"})
		return
	}

	if err := h.complaintRepo.UpdateStatus(ctx, complaintID, models.StatusReportGenerated); err != nil {
		h.logger.Warn("Failed to update complaint status", zap.Error(err))
	}

	if err := h.auditLogger.LogAction(ctx, audit.Entry{
		UserID:       currentUserID(c),
		Action:       "generate_report",
		ResourceType: "report",
		ResourceID:   report.ID.String(),
		IPAddress:    c.ClientIP(),
		Details: models.JSONB{
			"complaint_id": complaintID.String(),
			"version":      report.Version,
		},
		Success: true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) ExportReport(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}
	reportID, err := uuid.Parse(c.Param("report_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID format"})
		return
	}

	ctx := c.Request.Context()

	report, err := h.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
			return
		}
		h.logger.Error("Failed to get report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get report"})
		return
	}
	if report.ComplaintID != complaintID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	format := c.DefaultQuery("format", "text")
	filename := fmt.Sprintf("report_%s_v%d", report.ComplaintID, report.Version)

	switch format {
	case "text":
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.txt", filename))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(reports.ExportText(report)))
	case "json":
		out, err := reports.ExportJSON(report)
		if err != nil {
			h.logger.Error("JSON export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		c.Data(http.StatusOK, "application/json", []byte(out))
	case "pdf":
		out, err := reports.ExportPDF(report)
		if err != nil {
			h.logger.Error("PDF export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", out)
	case "xlsx":
		out, err := reports.ExportXLSX(report)
		if err != nil {
			h.logger.Error("XLSX export failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", out)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported export format", "format": format})
		return
	}

	if err := h.auditLogger.LogAction(ctx, audit.Entry{
		UserID:       currentUserID(c),
		Action:       "export_report",
		ResourceType: "report",
		ResourceID:   reportID.String(),
		IPAddress:    c.ClientIP(),
		Details:      models.JSONB{"format": format},
		Success:      true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}
}

func (h *ReportHandler) ListReports(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	list, err := h.reportRepo.ListByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		h.logger.Error("Failed to list reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": list})
}
