package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"license-investigation/internal/access"
	"license-investigation/internal/audit"
	"license-investigation/internal/database"
	"license-investigation/internal/models"
	"license-investigation/internal/repository"
)

type ComplaintHandler struct {
	complaintRepo *repository.ComplaintRepository
	documentRepo  *repository.DocumentRepository
	auditLogger   *audit.Logger
	logger        *zap.Logger
}

func NewComplaintHandler(
	complaintRepo *repository.ComplaintRepository,
	documentRepo *repository.DocumentRepository,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *ComplaintHandler {
	return &ComplaintHandler{
		complaintRepo: complaintRepo,
		documentRepo:  documentRepo,
		auditLogger:   auditLogger,
		logger:        logger.Named("complaint_handler"),
	}
}

func (h *ComplaintHandler) CreateComplaint(c *gin.Context) {
	var req models.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.ComplaintNumber == "" || req.LicenseeName == "" ||
		req.LicenseeLicenseNumber == "" || req.ComplaintDescription == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required complaint fields"})
		return
	}

	complaint, err := h.complaintRepo.Create(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create complaint"})
		return
	}

	h.logAction(c, "create_complaint", complaint, true)

	c.JSON(http.StatusCreated, complaint)
}

func (h *ComplaintHandler) GetComplaint(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	complaint, err := h.complaintRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to get complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaint"})
		return
	}

	if !access.CanAccessClassification(currentRole(c), complaint.SecurityClassification) {
		h.logClassifiedAccess(c, complaint, false)
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient clearance for this classification"})
		return
	}
	h.logClassifiedAccess(c, complaint, true)

	c.JSON(http.StatusOK, complaint)
}

func (h *ComplaintHandler) ListComplaints(c *gin.Context) {
	page := database.Paginate{Limit: 50, Offset: 0}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 1000 {
			page.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			page.Offset = offset
		}
	}

	complaints, err := h.complaintRepo.List(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("Failed to list complaints", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list complaints"})
		return
	}

	// Complaints above the caller's clearance are omitted from listings.
	role := currentRole(c)
	visible := make([]models.Complaint, 0, len(complaints))
	for _, complaint := range complaints {
		if access.CanAccessClassification(role, complaint.SecurityClassification) {
			visible = append(visible, complaint)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": visible,
		"limit":      page.Limit,
		"offset":     page.Offset,
	})
}

func (h *ComplaintHandler) AssignInvestigator(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	var req struct {
		Investigator string `json:"investigator" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if err := h.complaintRepo.AssignInvestigator(c.Request.Context(), id, req.Investigator); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to assign investigator", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign investigator"})
		return
	}

	if err := h.auditLogger.LogAction(c.Request.Context(), audit.Entry{
		UserID:       currentUserID(c),
		Action:       "assign_investigator",
		ResourceType: "complaint",
		ResourceID:   id.String(),
		IPAddress:    c.ClientIP(),
		Details:      models.JSONB{"investigator": req.Investigator},
		Success:      true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

func (h *ComplaintHandler) logAction(c *gin.Context, action string, complaint *models.Complaint, success bool) {
	resourceID := ""
	if complaint.ID != nil {
		resourceID = complaint.ID.String()
	}
	if err := h.auditLogger.LogAction(c.Request.Context(), audit.Entry{
		UserID:       currentUserID(c),
		Action:       action,
		ResourceType: "complaint",
		ResourceID:   resourceID,
		IPAddress:    c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		Details:      models.JSONB{"complaint_number": complaint.ComplaintNumber},
		Success:      success,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}
}

func (h *ComplaintHandler) logClassifiedAccess(c *gin.Context, complaint *models.Complaint, success bool) {
	resourceID := ""
	if complaint.ID != nil {
		resourceID = complaint.ID.String()
	}
	ctx := c.Request.Context()
	userID := currentUserID(c)

	var err error
	switch complaint.SecurityClassification {
	case models.ClassificationPHI:
		err = h.auditLogger.LogPHIAccess(ctx, userID, "complaint", resourceID, success)
	case models.ClassificationCFR2:
		err = h.auditLogger.LogCFR2Access(ctx, userID, "complaint", resourceID, success)
	default:
		err = h.auditLogger.LogDataAccess(ctx, userID, "complaint", resourceID)
	}
	if err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}
}
