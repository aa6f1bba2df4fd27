package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"license-investigation/internal/access"
	"license-investigation/internal/config"
	"license-investigation/internal/database"
	"license-investigation/internal/handlers"
)

// Server wires the HTTP API together.
type Server struct {
	httpServer *http.Server
	db         *database.Database
	logger     *zap.Logger
}

// Handlers collects the route handlers the server exposes.
type Handlers struct {
	Complaint *handlers.ComplaintHandler
	Document  *handlers.DocumentHandler
	Analysis  *handlers.AnalysisHandler
	Report    *handlers.ReportHandler
	Audit     *handlers.AuditHandler
}

// New creates an HTTP server with all routes registered.
func New(cfg *config.Config, db *database.Database, h Handlers, logger *zap.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	s := &Server{
		db:     db,
		logger: logger.Named("server"),
	}

	router.GET("/health", s.healthCheck)

	api := router.Group("/api")
	api.Use(handlers.Identity())
	{
		complaints := api.Group("/complaints")
		complaints.POST("",
			handlers.RequirePermission(access.PermCreateComplaint), h.Complaint.CreateComplaint)
		complaints.GET("",
			handlers.RequirePermission(access.PermViewComplaint), h.Complaint.ListComplaints)
		complaints.GET("/:id",
			handlers.RequirePermission(access.PermViewComplaint), h.Complaint.GetComplaint)
		complaints.PUT("/:id/investigator",
			handlers.RequirePermission(access.PermEditComplaint), h.Complaint.AssignInvestigator)

		complaints.POST("/:id/documents",
			handlers.RequirePermission(access.PermUploadDocument), h.Document.AttachDocument)
		complaints.POST("/:id/documents/upload",
			handlers.RequirePermission(access.PermUploadDocument), h.Document.UploadDocument)
		complaints.GET("/:id/documents",
			handlers.RequirePermission(access.PermViewDocument), h.Document.ListDocuments)

		complaints.POST("/:id/analyze",
			handlers.RequirePermission(access.PermRunAnalysis), h.Analysis.RunAnalysis)
		complaints.GET("/:id/analysis",
			handlers.RequirePermission(access.PermViewAnalysis), h.Analysis.GetLatestAnalysis)
		complaints.POST("/:id/strategies",
			handlers.RequirePermission(access.PermRunAnalysis), h.Analysis.RecommendStrategies)

		complaints.POST("/:id/reports",
			handlers.RequirePermission(access.PermGenerateReport), h.Report.GenerateReport)
		complaints.GET("/:id/reports",
			handlers.RequirePermission(access.PermViewReport), h.Report.ListReports)
		complaints.GET("/:id/reports/:report_id/export",
			handlers.RequirePermission(access.PermExportReport), h.Report.ExportReport)

		api.GET("/audit-logs",
			handlers.RequirePermission(access.PermViewAuditLog), h.Audit.ListAuditLogs)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "HTTP server failed")
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) healthCheck(c *gin.Context) {
	if err := s.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		c.Next()

		log.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()))
	}
}
