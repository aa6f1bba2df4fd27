package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"license-investigation/internal/audit"
	"license-investigation/internal/models"
	"license-investigation/internal/repository"
	"license-investigation/internal/security"
)

type DocumentHandler struct {
	complaintRepo *repository.ComplaintRepository
	documentRepo  *repository.DocumentRepository
	encryptor     *security.Encryptor
	storagePath   string
	maxFileSize   int64
	auditLogger   *audit.Logger
	logger        *zap.Logger
}

func NewDocumentHandler(
	complaintRepo *repository.ComplaintRepository,
	documentRepo *repository.DocumentRepository,
	encryptor *security.Encryptor,
	storagePath string,
	maxFileSize int64,
	auditLogger *audit.Logger,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		complaintRepo: complaintRepo,
		documentRepo:  documentRepo,
		encryptor:     encryptor,
		storagePath:   storagePath,
		maxFileSize:   maxFileSize,
		auditLogger:   auditLogger,
		logger:        logger.Named("document_handler"),
	}
}

func (h *DocumentHandler) AttachDocument(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	var req models.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if req.Filename == "" || req.DocumentType == "" || req.SecurityClassification == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required document fields"})
		return
	}

	// PHI and CFR2 documents must arrive already encrypted; the compliance
	// checker reports stored violations, but the API refuses to create new
	// ones.
	if (req.SecurityClassification == models.ClassificationPHI ||
		req.SecurityClassification == models.ClassificationCFR2) && !req.Encrypted {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Documents with this classification must be encrypted",
		})
		return
	}

	if _, err := h.complaintRepo.GetByID(c.Request.Context(), complaintID); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to get complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaint"})
		return
	}

	document, err := h.documentRepo.Create(c.Request.Context(), complaintID, &req, currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to attach document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach document"})
		return
	}

	if err := h.auditLogger.LogAction(c.Request.Context(), audit.Entry{
		UserID:       currentUserID(c),
		Action:       "upload_document",
		ResourceType: "document",
		ResourceID:   document.ID.String(),
		IPAddress:    c.ClientIP(),
		Details: models.JSONB{
			"complaint_id":            complaintID.String(),
			"filename":                document.Filename,
			"security_classification": string(document.SecurityClassification),
		},
		Success: true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}

	c.JSON(http.StatusCreated, document)
}

// UploadDocument accepts a multipart file upload. PHI and CFR2 files are
// encrypted before they touch disk; every file gets a SHA-256 checksum.
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	if _, err := h.complaintRepo.GetByID(c.Request.Context(), complaintID); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
			return
		}
		h.logger.Error("Failed to get complaint", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get complaint"})
		return
	}

	docType := models.DocumentType(c.PostForm("document_type"))
	classification := models.SecurityClassification(c.PostForm("security_classification"))
	if docType == "" || classification == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "document_type and security_classification are required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}
	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds maximum size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	checksum := security.Checksum(content)

	encrypt := classification == models.ClassificationPHI || classification == models.ClassificationCFR2
	stored := content
	if encrypt {
		stored, err = h.encryptor.Encrypt(content)
		if err != nil {
			h.logger.Error("Failed to encrypt document", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
			return
		}
	}

	dir := filepath.Join(h.storagePath, complaintID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		h.logger.Error("Failed to create storage directory", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}
	storedName := fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(fileHeader.Filename))
	path := filepath.Join(dir, storedName)
	if err := os.WriteFile(path, stored, 0o600); err != nil {
		h.logger.Error("Failed to write document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	document, err := h.documentRepo.Create(c.Request.Context(), complaintID, &models.CreateDocumentRequest{
		DocumentType:           docType,
		Filename:               fileHeader.Filename,
		FilePath:               path,
		FileSize:               fileHeader.Size,
		MimeType:               fileHeader.Header.Get("Content-Type"),
		SecurityClassification: classification,
		Encrypted:              encrypt,
		Checksum:               &checksum,
	}, currentUserID(c))
	if err != nil {
		h.logger.Error("Failed to create document record", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	if err := h.auditLogger.LogAction(c.Request.Context(), audit.Entry{
		UserID:       currentUserID(c),
		Action:       "upload_document",
		ResourceType: "document",
		ResourceID:   document.ID.String(),
		IPAddress:    c.ClientIP(),
		Details: models.JSONB{
			"complaint_id":            complaintID.String(),
			"filename":                document.Filename,
			"security_classification": string(classification),
			"encrypted":               encrypt,
			"checksum":                checksum,
		},
		Success: true,
	}); err != nil {
		h.logger.Warn("Audit logging failed", zap.Error(err))
	}

	c.JSON(http.StatusCreated, document)
}

func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	complaintID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID format"})
		return
	}

	documents, err := h.documentRepo.ListByComplaint(c.Request.Context(), complaintID)
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}
