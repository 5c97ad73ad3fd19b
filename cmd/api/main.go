package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iTakecare/itakecarehub-sub001/docs"
	"github.com/iTakecare/itakecarehub-sub001/internal/auth"
	"github.com/iTakecare/itakecarehub-sub001/internal/config"
	"github.com/iTakecare/itakecarehub-sub001/internal/database"
	"github.com/iTakecare/itakecarehub-sub001/internal/http/handler"
	"github.com/iTakecare/itakecarehub-sub001/internal/http/middleware"
	"github.com/iTakecare/itakecarehub-sub001/internal/http/router"
	"github.com/iTakecare/itakecarehub-sub001/internal/jobs"
	"github.com/iTakecare/itakecarehub-sub001/internal/logger"
	"github.com/iTakecare/itakecarehub-sub001/internal/repository"
	"github.com/iTakecare/itakecarehub-sub001/internal/service"
	"github.com/iTakecare/itakecarehub-sub001/internal/storage"
	"go.uber.org/zap"
)

// @title iTakecare Hub API
// @version 1.0
// @description Leasing hub API for offer pricing, commissions, and workflow management

// @contact.name API Support
// @contact.email support@itakecare.be

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "hub-staging.itakecare.be"
	case "production":
		docs.SwaggerInfo.Host = "hub.itakecare.be"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Connect to database with retry logic
	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate in development; staging and production run goose
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
	}

	// Initialize storage
	docStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize repositories
	leaserRepo := repository.NewLeaserRepository(db)
	levelRepo := repository.NewCommissionLevelRepository(db)
	clientRepo := repository.NewClientRepository(db)
	ambassadorRepo := repository.NewAmbassadorRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	workflowLogRepo := repository.NewWorkflowLogRepository(db)
	contractRepo := repository.NewContractRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	// Initialize services
	leaserService := service.NewLeaserService(leaserRepo, log)
	commissionService := service.NewCommissionService(levelRepo, ambassadorRepo, log)
	clientService := service.NewClientService(clientRepo, log)
	ambassadorService := service.NewAmbassadorService(ambassadorRepo, levelRepo, log)
	offerService := service.NewOfferService(offerRepo, leaserRepo, clientRepo, commissionService, log)
	workflowService := service.NewOfferWorkflowService(offerRepo, workflowLogRepo, contractRepo, log, db)
	contractService := service.NewContractService(contractRepo, log)
	documentService := service.NewDocumentService(documentRepo, offerRepo, docStorage, log)

	// Commission recomputes triggered by level edits are coalesced so a
	// burst of range changes produces one recompute per offer
	recalcScheduler := service.NewRecalcScheduler(cfg.Recalc.CoalesceWindow(), offerService.RecalcByID, log)
	offerService.SetRecalcScheduler(recalcScheduler)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	leaserHandler := handler.NewLeaserHandler(leaserService, log)
	commissionHandler := handler.NewCommissionHandler(commissionService, log)
	clientHandler := handler.NewClientHandler(clientService, log)
	ambassadorHandler := handler.NewAmbassadorHandler(ambassadorService, log)
	offerHandler := handler.NewOfferHandler(offerService, workflowService, log)
	documentHandler := handler.NewDocumentHandler(documentService, cfg.Storage.MaxUploadSizeMB, log)
	contractHandler := handler.NewContractHandler(contractService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		leaserHandler,
		commissionHandler,
		clientHandler,
		ambassadorHandler,
		offerHandler,
		documentHandler,
		contractHandler,
	)

	// Initialize and start scheduler for background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		auditJob := jobs.NewRangeAuditJob(leaserRepo, levelRepo, log, 0)
		if err := scheduler.AddJob(jobs.RangeAuditJobName, cfg.Jobs.RangeAuditSchedule, auditJob.Run); err != nil {
			log.Error("Failed to register range audit job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with range audit job",
				zap.String("cron_expr", cfg.Jobs.RangeAuditSchedule),
			)
		}
	} else {
		log.Info("Background jobs disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		// Stop pending recomputes before the job scheduler
		recalcScheduler.Stop()

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped")
	}

	return nil
}
