package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"license-investigation/internal/analysis"
	"license-investigation/internal/audit"
	"license-investigation/internal/compliance"
	"license-investigation/internal/config"
	"license-investigation/internal/database"
	"license-investigation/internal/handlers"
	"license-investigation/internal/llm"
	"license-investigation/internal/reports"
	"license-investigation/internal/repository"
	"license-investigation/internal/security"
	"license-investigation/internal/server"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting License Investigation Service")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.Bool("debug", cfg.Debug))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	complaintRepo := repository.NewComplaintRepository(db, logger)
	documentRepo := repository.NewDocumentRepository(db, logger)
	analysisRepo := repository.NewAnalysisRepository(db, logger)
	reportRepo := repository.NewReportRepository(db, logger)
	auditRepo := repository.NewAuditRepository(db, logger)

	auditLogger := audit.NewLogger(auditRepo, logger)

	checker := compliance.NewChecker(cfg.Compliance.RecordRetentionDays, logger)
	generator := reports.NewGenerator(checker, logger)

	encryptor, err := security.NewEncryptor(cfg.Security.EncryptionKey, cfg.Security.EncryptionSalt)
	if err != nil {
		if cfg.Environment == "production" {
			logger.Fatal("Failed to initialize encryption", zap.Error(err))
		}
		logger.Warn("Encryption disabled, using development key", zap.Error(err))
		encryptor, err = security.NewEncryptor("development-only-key", cfg.Security.EncryptionSalt)
		if err != nil {
			logger.Fatal("Failed to initialize encryption", zap.Error(err))
		}
	}

	llmClient := llm.NewOpenAIClient(llm.ClientConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})
	analyzer := analysis.NewAnalyzer(llmClient, cfg.LLM.Model, logger)

	srv := server.New(cfg, db, server.Handlers{
		Complaint: handlers.NewComplaintHandler(complaintRepo, documentRepo, auditLogger, logger),
		Document: handlers.NewDocumentHandler(complaintRepo, documentRepo, encryptor,
			cfg.Storage.LocalPath, cfg.Storage.MaxFileSize, auditLogger, logger),
		Analysis:  handlers.NewAnalysisHandler(complaintRepo, documentRepo, analysisRepo, analyzer, auditLogger, logger),
		Report:    handlers.NewReportHandler(complaintRepo, documentRepo, analysisRepo, reportRepo, generator, auditLogger, logger),
		Audit:     handlers.NewAuditHandler(auditRepo, logger),
	}, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Failed to stop server gracefully", zap.Error(err))
	}

	logger.Info("License Investigation Service stopped")
}

// initLogger initializes the zap logger
func initLogger() *zap.Logger {
	var config zap.Config

	env := os.Getenv("ENVIRONMENT")
	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := config.Build()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	return logger
}
