package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SeanSoulong/admin-bay/internal/auth"
	"github.com/SeanSoulong/admin-bay/pkg/health"
	"github.com/SeanSoulong/admin-bay/pkg/middleware"
)

// RouterConfig carries the handlers and shared plumbing the router mounts.
type RouterConfig struct {
	Products *ProductHandler
	Reviews  *ReviewHandler
	Cards    *LearningCardHandler
	Users    *UserHandler
	Uploads  *UploadHandler

	Health   *health.Handler
	Verifier auth.Verifier
	Gate     *auth.Gate

	CORS       middleware.CORSConfig
	PprofCIDRs []string
	Logger     *slog.Logger
}

// NewRouter assembles the admin API: the middleware stack, the operational
// endpoints and the versioned, admin-gated resource routes.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("admin-bay"))

	r.Get("/healthz", cfg.Health.LivenessHandler())
	r.Get("/readyz", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if len(cfg.PprofCIDRs) > 0 {
		middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(auth.RequireAdmin(cfg.Verifier, cfg.Gate, cfg.Logger))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.ListProducts)
			r.Post("/", cfg.Products.CreateProduct)
			r.Get("/export.xlsx", cfg.Products.ExportProducts)
			r.Get("/{id}", cfg.Products.GetProduct)
			r.Patch("/{id}", cfg.Products.UpdateProduct)
			r.Delete("/{id}", cfg.Products.DeleteProduct)
			r.Post("/{id}/recompute-rating", cfg.Reviews.RecomputeProductRating)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", cfg.Reviews.ListReviews)
			r.Post("/bulk-delete", cfg.Reviews.BulkDeleteReviews)
			r.Get("/export.csv", cfg.Reviews.ExportReviews)
			r.Get("/{id}", cfg.Reviews.GetReview)
			r.Delete("/{id}", cfg.Reviews.DeleteReview)
		})

		r.Route("/learning-cards", func(r chi.Router) {
			r.Get("/", cfg.Cards.ListCards)
			r.Post("/", cfg.Cards.CreateCard)
			r.Get("/{uuid}", cfg.Cards.GetCard)
			r.Patch("/{uuid}", cfg.Cards.UpdateCard)
			r.Delete("/{uuid}", cfg.Cards.DeleteCard)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", cfg.Users.ListUsers)
			r.Get("/{id}", cfg.Users.GetUser)
		})

		r.Route("/uploads", func(r chi.Router) {
			r.Post("/{folder}", cfg.Uploads.UploadFiles)
			r.Delete("/", cfg.Uploads.DeleteUpload)
		})
	})

	return r
}
