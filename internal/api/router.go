package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"blogapi/internal/api/middleware"
	"blogapi/internal/api/response"
	"blogapi/internal/domain"
	"blogapi/internal/security"
	"blogapi/pkg/logger"
)

type RouterConfig struct {
	Logger logger.Logger

	UserService     domain.UserService
	CategoryService domain.CategoryService
	BlogService     domain.BlogService
	AuditLogService domain.AuditLogService
	Health          *HealthHandler

	// Tokens is nil when authentication is disabled.
	Tokens *security.TokenManager
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *middleware.RateLimiter
	Timeout     time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.TracingMiddleware)
	r.Use(middleware.MetricsMiddleware)
	if cfg.Timeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.Timeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithError(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RespondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if cfg.Health != nil {
		r.Get("/health", cfg.Health.HealthCheck)
		r.Get("/health/live", cfg.Health.LivenessCheck)
		r.Get("/health/ready", cfg.Health.ReadinessCheck)
	}
	r.Handle("/metrics", promhttp.Handler())

	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	categoryHandler := NewCategoryHandler(cfg.CategoryService, cfg.Logger)
	blogHandler := NewBlogHandler(cfg.BlogService, cfg.Logger)
	auditLogHandler := NewAuditLogHandler(cfg.AuditLogService, cfg.Logger)

	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Handler)
		}

		api.Group(func(public chi.Router) {
			userHandler.RegisterPublicRoutes(public)
			if cfg.Tokens != nil {
				public.Route("/auth", NewAuthHandler(cfg.UserService, cfg.Tokens, cfg.Logger).RegisterRoutes)
			}
		})

		api.Group(func(protected chi.Router) {
			if cfg.Tokens != nil {
				protected.Use(middleware.RequireAuth(cfg.Tokens))
			}

			userHandler.RegisterRoutes(protected)
			protected.Route("/categories", categoryHandler.RegisterRoutes)
			protected.Route("/blogs", blogHandler.RegisterRoutes)
			protected.Route("/audit-logs", auditLogHandler.RegisterRoutes)
		})
	})

	return r
}
