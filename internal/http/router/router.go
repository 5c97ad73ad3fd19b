package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iTakecare/itakecarehub-sub001/internal/auth"
	"github.com/iTakecare/itakecarehub-sub001/internal/config"
	"github.com/iTakecare/itakecarehub-sub001/internal/database"
	"github.com/iTakecare/itakecarehub-sub001/internal/http/handler"
	"github.com/iTakecare/itakecarehub-sub001/internal/http/middleware"

	_ "github.com/iTakecare/itakecarehub-sub001/docs" // Import generated swagger docs
)

type Router struct {
	cfg               *config.Config
	logger            *zap.Logger
	db                *gorm.DB
	authMiddleware    *auth.Middleware
	rateLimiter       *middleware.RateLimiter
	leaserHandler     *handler.LeaserHandler
	commissionHandler *handler.CommissionHandler
	clientHandler     *handler.ClientHandler
	ambassadorHandler *handler.AmbassadorHandler
	offerHandler      *handler.OfferHandler
	documentHandler   *handler.DocumentHandler
	contractHandler   *handler.ContractHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	leaserHandler *handler.LeaserHandler,
	commissionHandler *handler.CommissionHandler,
	clientHandler *handler.ClientHandler,
	ambassadorHandler *handler.AmbassadorHandler,
	offerHandler *handler.OfferHandler,
	documentHandler *handler.DocumentHandler,
	contractHandler *handler.ContractHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		logger:            logger,
		db:                db,
		authMiddleware:    authMiddleware,
		rateLimiter:       rateLimiter,
		leaserHandler:     leaserHandler,
		commissionHandler: commissionHandler,
		clientHandler:     clientHandler,
		ambassadorHandler: ambassadorHandler,
		offerHandler:      offerHandler,
		documentHandler:   documentHandler,
		contractHandler:   contractHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	if rt.cfg.Server.EnableMetrics {
		metrics := middleware.NewMetrics(prometheus.DefaultRegisterer)
		r.Use(metrics.Instrument)
		r.Handle("/metrics", promhttp.Handler())
	}

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health with pool stats
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Readiness probe
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
			checks["database"] = map[string]interface{}{"status": "healthy"}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Leasers: coefficient tables are admin-managed configuration
			r.Route("/leasers", func(r chi.Router) {
				r.Get("/", rt.leaserHandler.List)
				r.Get("/{id}", rt.leaserHandler.GetByID)
				r.Get("/{id}/coefficient", rt.leaserHandler.ResolveCoefficient)
				r.With(rt.authMiddleware.RequireAdmin).Post("/", rt.leaserHandler.Create)
				r.With(rt.authMiddleware.RequireAdmin).Put("/{id}", rt.leaserHandler.Update)
				r.With(rt.authMiddleware.RequireAdmin).Put("/{id}/ranges", rt.leaserHandler.ReplaceRanges)
				r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.leaserHandler.Delete)
			})

			// Commission levels
			r.Route("/commission-levels", func(r chi.Router) {
				r.Get("/", rt.commissionHandler.List)
				r.Get("/{id}", rt.commissionHandler.GetByID)
				r.Get("/{id}/preview", rt.commissionHandler.Preview)
				r.With(rt.authMiddleware.RequireAdmin).Post("/", rt.commissionHandler.Create)
				r.With(rt.authMiddleware.RequireAdmin).Put("/{id}", rt.commissionHandler.Update)
				r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.commissionHandler.Delete)
			})

			// Clients
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", rt.clientHandler.List)
				r.Post("/", rt.clientHandler.Create)
				r.Get("/{id}", rt.clientHandler.GetByID)
				r.Put("/{id}", rt.clientHandler.Update)
				r.Delete("/{id}", rt.clientHandler.Delete)
			})

			// Ambassadors
			r.Route("/ambassadors", func(r chi.Router) {
				r.Get("/", rt.ambassadorHandler.List)
				r.Post("/", rt.ambassadorHandler.Create)
				r.Get("/{id}", rt.ambassadorHandler.GetByID)
				r.Put("/{id}", rt.ambassadorHandler.Update)
				r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.ambassadorHandler.Delete)
			})

			// Offers and their workflow
			r.Route("/offers", func(r chi.Router) {
				r.Get("/", rt.offerHandler.List)
				r.Post("/", rt.offerHandler.Create)
				r.Get("/export", rt.offerHandler.Export)
				r.Get("/workflow-statuses", rt.offerHandler.WorkflowStatuses)
				r.Get("/{id}", rt.offerHandler.GetByID)
				r.Put("/{id}", rt.offerHandler.Update)
				r.Delete("/{id}", rt.offerHandler.Delete)

				// Pricing
				r.Post("/{id}/recalculate", rt.offerHandler.Recalculate)

				// Workflow
				r.Patch("/{id}/status", rt.offerHandler.UpdateStatus)
				r.Post("/{id}/request-info", rt.offerHandler.RequestInfo)
				r.Post("/{id}/process-info", rt.offerHandler.ProcessInfo)
				r.Get("/{id}/logs", rt.offerHandler.Logs)

				// Documents
				r.Get("/{id}/documents", rt.documentHandler.ListByOffer)
				r.Post("/{id}/documents", rt.documentHandler.Upload)
			})

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/{id}/download", rt.documentHandler.Download)
				r.Delete("/{id}", rt.documentHandler.Delete)
			})

			// Contracts
			r.Route("/contracts", func(r chi.Router) {
				r.Get("/", rt.contractHandler.List)
				r.Get("/{id}", rt.contractHandler.GetByID)
				r.Patch("/{id}/status", rt.contractHandler.UpdateStatus)
			})
		})
	})

	return r
}
