package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"license-investigation/internal/database"
	"license-investigation/internal/models"
	"license-investigation/internal/repository"
)

type AuditHandler struct {
	auditRepo *repository.AuditRepository
	logger    *zap.Logger
}

func NewAuditHandler(auditRepo *repository.AuditRepository, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditRepo: auditRepo,
		logger:    logger.Named("audit_handler"),
	}
}

func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
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

	if resourceType := c.Query("resource_type"); resourceType != "" {
		logs, err := h.auditRepo.ListByResource(c.Request.Context(), resourceType, c.Query("resource_id"))
		if err != nil {
			h.logger.Error("Failed to list audit logs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
			return
		}
		c.JSON(http.StatusOK, models.ListAuditLogsResponse{
			Logs:   logs,
			Total:  int64(len(logs)),
			Limit:  page.Limit,
			Offset: page.Offset,
		})
		return
	}

	logs, total, err := h.auditRepo.List(c.Request.Context(), page)
	if err != nil {
		h.logger.Error("Failed to list audit logs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list audit logs"})
		return
	}

	c.JSON(http.StatusOK, models.ListAuditLogsResponse{
		Logs:   logs,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}
