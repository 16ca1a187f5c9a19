package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/KareemHegazy123/WikiApp/internal/config"
	"github.com/KareemHegazy123/WikiApp/internal/logger"
	"github.com/KareemHegazy123/WikiApp/internal/markdown"
	"github.com/KareemHegazy123/WikiApp/internal/service"
)

// HealthChecker reports whether the storage behind the API is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	pages    service.PageService
	renderer *markdown.Renderer
	health   HealthChecker
	cfg      *config.Config
}

func New(pages service.PageService, renderer *markdown.Renderer, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{pages, renderer, health, cfg}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// headers are already on the wire, logging is all that is left
		logger.Log.Error("encoding response failed", "error", err)
	}
}
