package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripforge/marketplace-api/docs"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/config"
	"github.com/tripforge/marketplace-api/internal/database"
	"github.com/tripforge/marketplace-api/internal/http/handler"
	"github.com/tripforge/marketplace-api/internal/http/middleware"
	"github.com/tripforge/marketplace-api/internal/http/router"
	"github.com/tripforge/marketplace-api/internal/jobs"
	"github.com/tripforge/marketplace-api/internal/logger"
	"github.com/tripforge/marketplace-api/internal/repository"
	"github.com/tripforge/marketplace-api/internal/service"
	"github.com/tripforge/marketplace-api/internal/storage"
	"github.com/tripforge/marketplace-api/internal/warehouse"
	"go.uber.org/zap"
)

// @title TripForge Marketplace API
// @version 1.0
// @description B2B travel marketplace API for lead purchasing and itinerary assembly

// @contact.name API Support
// @contact.email support@tripforge.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

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
		docs.SwaggerInfo.Host = "marketplace-api-staging.tripforge.io"
	case "production":
		docs.SwaggerInfo.Host = "api.tripforge.io"
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

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Schema migrations are owned by cmd/migrate; auto-migrate only covers
	// development convenience
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate schema: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Initialize reporting warehouse connection (optional, read-only)
	var warehouseClient *warehouse.Client
	if cfg.Warehouse.Enabled {
		warehouseClient, err = warehouse.NewClient(&cfg.Warehouse, log)
		if err != nil {
			// Warehouse is optional, the app continues without it
			log.Warn("Warehouse connection failed, continuing without it",
				zap.Error(err),
			)
		} else if warehouseClient != nil {
			log.Info("Warehouse connected successfully",
				zap.Int("query_timeout_seconds", cfg.Warehouse.QueryTimeout),
			)
		}
	} else {
		log.Info("Warehouse not configured, skipping")
	}

	// Initialize repositories
	leadRepo := repository.NewLeadRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	dayRepo := repository.NewItineraryDayRepository(db)
	itemRepo := repository.NewItineraryItemRepository(db)
	fileRepo := repository.NewFileRepository(db)

	// Initialize services
	leadService := service.NewLeadService(leadRepo, log)
	itineraryService := service.NewItineraryService(itineraryRepo, itemRepo, leadRepo, log)
	dayService := service.NewItineraryDayService(dayRepo, itineraryRepo, log)
	itemService := service.NewItineraryItemService(itemRepo, dayRepo, itineraryRepo, log)
	fileService := service.NewFileService(fileRepo, itineraryRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(leadRepo, itineraryRepo, log)
	if warehouseClient != nil {
		dashboardService.SetWarehouseClient(warehouseClient)
	}

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	itineraryHandler := handler.NewItineraryHandler(itineraryService, log)
	dayHandler := handler.NewItineraryDayHandler(dayService, log)
	itemHandler := handler.NewItineraryItemHandler(itemService, log)
	leadHandler := handler.NewLeadHandler(leadService, log)
	fileHandler := handler.NewFileHandler(fileService, cfg.Storage.MaxUploadSizeMB, log)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, log)
	authHandler := handler.NewAuthHandler(log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		itineraryHandler,
		dayHandler,
		itemHandler,
		leadHandler,
		fileHandler,
		dashboardHandler,
		authHandler,
	)

	// Start the totals reconciliation sweep when enabled
	var scheduler *jobs.Scheduler
	if cfg.Jobs.ReconcileEnabled {
		scheduler = jobs.NewScheduler(log)
		reconcileJob := jobs.NewReconcileJob(itineraryService, log, 0)

		if err := scheduler.AddJob(jobs.ReconcileJobName, cfg.Jobs.ReconcileSchedule, reconcileJob.Run); err != nil {
			log.Error("Failed to register reconcile job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with reconcile job",
				zap.String("cron_expr", cfg.Jobs.ReconcileSchedule),
			)
		}
	} else {
		log.Info("Totals reconcile job disabled")
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

		// Stop scheduler if running
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

		// Close warehouse connection if initialized
		if warehouseClient != nil {
			if err := warehouseClient.Close(); err != nil {
				log.Warn("Error closing warehouse connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
