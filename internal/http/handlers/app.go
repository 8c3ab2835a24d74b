package handlers

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"stillmotion/internal/assets"
	"stillmotion/internal/infra"
	"stillmotion/internal/service"
)

// App is the handler container: the generation orchestrator, the asset
// registry the results live in, and the single-generation gate.
type App struct {
	Generator *service.Generator
	Registry  *assets.Registry
	Logger    infra.Logger

	// generating keeps one generation in flight at a time. The core contract
	// allows concurrent independent calls; the serving surface does not.
	generating atomic.Bool
}

func NewApp(generator *service.Generator, registry *assets.Registry, logger infra.Logger) *App {
	return &App{Generator: generator, Registry: registry, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": code, "message": message})
}
