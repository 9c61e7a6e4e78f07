package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tripforge/marketplace-api/internal/auth"
	"github.com/tripforge/marketplace-api/internal/config"
	"github.com/tripforge/marketplace-api/internal/database"
	"github.com/tripforge/marketplace-api/internal/http/handler"
	"github.com/tripforge/marketplace-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/tripforge/marketplace-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	itineraryHandler *handler.ItineraryHandler
	dayHandler       *handler.ItineraryDayHandler
	itemHandler      *handler.ItineraryItemHandler
	leadHandler      *handler.LeadHandler
	fileHandler      *handler.FileHandler
	dashboardHandler *handler.DashboardHandler
	authHandler      *handler.AuthHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	itineraryHandler *handler.ItineraryHandler,
	dayHandler *handler.ItineraryDayHandler,
	itemHandler *handler.ItineraryItemHandler,
	leadHandler *handler.LeadHandler,
	fileHandler *handler.FileHandler,
	dashboardHandler *handler.DashboardHandler,
	authHandler *handler.AuthHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		itineraryHandler: itineraryHandler,
		dayHandler:       dayHandler,
		itemHandler:      itemHandler,
		leadHandler:      leadHandler,
		fileHandler:      fileHandler,
		dashboardHandler: dashboardHandler,
		authHandler:      authHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
				"max_idle_closed":      stats.MaxIdleClosed,
				"max_lifetime_closed":  stats.MaxLifetimeClosed,
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)

			// Leads
			r.Route("/leads", func(r chi.Router) {
				r.Get("/", rt.leadHandler.List)
				r.With(rt.authMiddleware.RequireAdmin).Post("/", rt.leadHandler.Create)
				r.Get("/{id}", rt.leadHandler.GetByID)
				r.Post("/{id}/purchase", rt.leadHandler.Purchase)
			})

			// Itineraries
			r.Route("/itineraries", func(r chi.Router) {
				r.Get("/", rt.itineraryHandler.List)
				r.Post("/", rt.itineraryHandler.Create)
				r.Get("/{id}", rt.itineraryHandler.GetByID)
				r.Patch("/{id}", rt.itineraryHandler.Update)

				// Lifecycle endpoints
				r.Post("/{id}/confirm", rt.itineraryHandler.Confirm)
				r.Post("/{id}/lock", rt.itineraryHandler.Lock)
				r.Post("/{id}/unlock", rt.itineraryHandler.Unlock)
				r.Post("/{id}/recalculate", rt.itineraryHandler.Recalculate)

				// Day plans
				r.Get("/{id}/days", rt.dayHandler.List)
				r.Post("/{id}/days", rt.dayHandler.Create)
				r.Post("/{id}/days/bulk", rt.dayHandler.BulkCreate)
				r.Patch("/{id}/days/{dayId}", rt.dayHandler.Update)
				r.Delete("/{id}/days/{dayId}", rt.dayHandler.Delete)

				// Line items
				r.Get("/{id}/items", rt.itemHandler.List)
				r.Post("/{id}/items", rt.itemHandler.Create)
				r.Patch("/{id}/items/{itemId}", rt.itemHandler.Update)
				r.Delete("/{id}/items/{itemId}", rt.itemHandler.Delete)

				// Attachments
				r.Get("/{id}/files", rt.fileHandler.ListByItinerary)
			})

			// Files
			r.Route("/files", func(r chi.Router) {
				r.Post("/upload", rt.fileHandler.Upload)
				r.Get("/{id}", rt.fileHandler.GetByID)
				r.Get("/{id}/download", rt.fileHandler.Download)
				r.Delete("/{id}", rt.fileHandler.Delete)
			})

			// Dashboard
			r.Get("/dashboard/metrics", rt.dashboardHandler.GetMetrics)
		})
	})

	return r
}
