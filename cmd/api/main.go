package main

import (
	"log"

	"github.com/faarish/invoicing-api/internal/application/service"
	"github.com/faarish/invoicing-api/internal/config"
	"github.com/faarish/invoicing-api/internal/infrastructure/database"
	"github.com/faarish/invoicing-api/internal/infrastructure/repository"
	"github.com/faarish/invoicing-api/internal/presentation/http/handler"
	"github.com/faarish/invoicing-api/internal/presentation/http/routes"
	"github.com/faarish/invoicing-api/pkg/archive"
	"github.com/faarish/invoicing-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	appLog := logger.New(cfg.Log.Level, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize the invoice archive
	var archiver archive.Archiver = archive.NullArchiver{}
	if cfg.Archive.Enabled {
		fileArchiver, err := archive.NewFileArchiver(cfg.Archive.Dir)
		if err != nil {
			appLog.WithError(err).Warn("failed to initialize archive directory, archiving disabled")
		} else {
			archiver = fileArchiver
		}
	}

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db)

	// Initialize services
	invoiceService := service.NewInvoiceService(invoiceRepo, archiver, appLog)
	numberingService := service.NewNumberingService(invoiceRepo)
	pdfService := service.NewPDFService()

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService, numberingService, pdfService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		Cfg: cfg,
		Log: appLog,
	})

	port := cfg.App.Port
	if port == "" {
		port = "3000"
	}

	appLog.WithField("port", port).Infof("Starting %s server", cfg.App.Name)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
