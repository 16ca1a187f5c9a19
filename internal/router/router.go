package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/KareemHegazy123/WikiApp/internal/middleware"
	"github.com/KareemHegazy123/WikiApp/internal/setup"
)

// New creates and configures the route table.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))
	// JSON API only, no scripts or styles are ever served
	r.Use(middleware.SecurityHeaders("default-src 'none'; frame-ancestors 'none'"))

	h := deps.Handler

	r.Route("/v1", func(r chi.Router) {
		r.Get("/pages", h.ListPages)
		r.Post("/pages", h.SavePage)
		r.Get("/pages/{name}", h.GetPage)
		r.Delete("/pages/{id}", h.DeletePage)
		r.Delete("/pages/{id}/attachments/{fileId}", h.DeleteAttachment)
		r.Get("/files/{fileId}", h.GetFile)
	})

	r.Get("/healthz", h.Health)
	r.Get("/readyz", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
