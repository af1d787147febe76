package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/asset-management/internal/accessory"
	"github.com/frahmantamala/asset-management/internal/assignment"
	"github.com/frahmantamala/asset-management/internal/dashboard"
	"github.com/frahmantamala/asset-management/internal/document"
	"github.com/frahmantamala/asset-management/internal/equipment"
	"github.com/frahmantamala/asset-management/internal/report"
	"github.com/frahmantamala/asset-management/internal/transport/middleware"
	"github.com/frahmantamala/asset-management/internal/transport/swagger"
	"github.com/frahmantamala/asset-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups every feature handler mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Health     *HealthHandler
	Equipment  *equipment.Handler
	Assignment *assignment.Handler
	User       *user.Handler
	Accessory  *accessory.Handler
	Document   *document.Handler
	Dashboard  *dashboard.Handler
	Report     *report.Handler
}

// RouterOptions carries the non-handler settings of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins string
	UploadsDir     string
	UploadsPath    string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) {
	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Actor)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	if opts.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	// Uploaded document files
	if opts.UploadsDir != "" && opts.UploadsPath != "" {
		prefix := opts.UploadsPath
		router.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadsDir))))
	}

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}
		if h.Equipment != nil {
			r.Route("/equipment", h.Equipment.Routes)
		}
		if h.Assignment != nil {
			r.Route("/assignments", h.Assignment.Routes)
		}
		if h.User != nil {
			r.Route("/users", h.User.Routes)
		}
		if h.Accessory != nil {
			r.Route("/accessories", h.Accessory.Routes)
		}
		if h.Document != nil {
			r.Route("/documents", h.Document.Routes)
		}
		if h.Dashboard != nil {
			r.Route("/dashboard", h.Dashboard.Routes)
		}
		if h.Report != nil {
			r.Route("/reports", h.Report.Routes)
		}
	})
}
