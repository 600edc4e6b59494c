package api

import (
	"context"
	"log/slog"
	"net/http"

	"kyc-onboarding/internal/api/handler"
	mw "kyc-onboarding/internal/api/middleware"
	"kyc-onboarding/internal/config"
	"kyc-onboarding/internal/domain/audit"
	"kyc-onboarding/internal/domain/auth"
	"kyc-onboarding/internal/domain/customer"
	"kyc-onboarding/internal/domain/dashboard"
	"kyc-onboarding/internal/domain/document"
	"kyc-onboarding/internal/domain/identity"
	"kyc-onboarding/internal/domain/review"

	_ "kyc-onboarding/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth      auth.Service
	Registrar auth.Registrar
	Tokens    mw.TokenParser
	Customers customer.CustomerService
	Reviews   review.Scheduler
	Documents document.Service
	Dashboard dashboard.Service
	Audit     AuditService
}

// AuditService is both the write side used by handlers and the read side behind /audit.
type AuditService interface {
	audit.Recorder
	handler.AuditReader
}

const healthPath = "/health"

func SetupRouter(ctx context.Context, svc Services, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	setupAuthRoutes(router, svc, logger)
	setupCustomerRoutes(router, svc, cfg, logger)
	setupReviewRoutes(router, svc, logger)
	setupDocumentRoutes(router, svc, cfg, logger)
	setupBackOfficeRoutes(router, svc, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.ClientIP)
	router.Use(mw.StructuredLogger(logger, healthPath, metricsPath(cfg)))
	router.Use(middleware.Recoverer)
	router.Use(mw.SecurityHeaders)
	router.Use(mw.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.Compress(5))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware(healthPath, metricsPath(cfg)))
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return cfg.Metrics.Path
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	path := metricsPath(cfg)
	logger.Info("Setting up Prometheus metrics endpoint", "path", path)
	router.Handle(path, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupAuthRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	h := handler.NewAuthHandler(svc.Auth, svc.Registrar, logger)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

func setupCustomerRoutes(router *chi.Mux, svc Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc.Customers, logger)
	rh := handler.NewReviewHandler(svc.Reviews, svc.Audit, logger)
	dh := handler.NewDocumentHandler(svc.Documents, cfg.Storage.MaxUploadBytes, logger)
	employeeOnly := mw.RequireRole(identity.RoleEmployee)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(svc.Tokens, logger))
		r.With(mw.RequireRole(identity.RoleCustomer)).Get("/me", h.Me)
		r.With(employeeOnly).Get("/", h.ListCustomers)

		r.Route("/{customerID}", func(r chi.Router) {
			// Ownership of the record itself is checked by the services.
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Post("/submit", h.SubmitCustomer)
			r.Get("/documents", dh.ListDocuments)
			r.Post("/documents", dh.UploadDocument)

			r.Group(func(r chi.Router) {
				r.Use(employeeOnly)
				r.Post("/approve", h.ApproveCustomer)
				r.Post("/reject", h.RejectCustomer)
				r.Post("/risk-score", h.CalculateRiskScore)
				r.Get("/risk-score", h.GetRiskScore)
				r.Get("/reviews", rh.ListCustomerReviews)
				r.Get("/reviews/history", rh.ReviewHistory)
			})
		})
	})
}

func setupReviewRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	h := handler.NewReviewHandler(svc.Reviews, svc.Audit, logger)

	router.Route("/reviews", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(svc.Tokens, logger))
		r.Use(mw.RequireRole(identity.RoleEmployee))
		r.Get("/upcoming", h.UpcomingReviews)
		r.Get("/overdue", h.OverdueReviews)
		r.Put("/{reviewID}/complete", h.CompleteReview)
		r.Post("/backfill", h.BackfillReviews)
	})
}

func setupDocumentRoutes(router *chi.Mux, svc Services, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewDocumentHandler(svc.Documents, cfg.Storage.MaxUploadBytes, logger)

	router.Route("/documents", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(svc.Tokens, logger))
		r.Get("/{documentID}/url", h.DocumentURL)
	})
}

func setupBackOfficeRoutes(router *chi.Mux, svc Services, logger *slog.Logger) {
	dh := handler.NewDashboardHandler(svc.Dashboard, logger)
	ah := handler.NewAuditHandler(svc.Audit, logger)

	router.Group(func(r chi.Router) {
		r.Use(mw.AuthMiddleware(svc.Tokens, logger))
		r.Use(mw.RequireRole(identity.RoleEmployee))
		r.Get("/dashboard/stats", dh.Stats)
		r.Get("/audit/{entityType}/{entityID}", ah.ListEntityAudit)
	})
}
