package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"stillmotion/internal/http/handlers"
	"stillmotion/internal/infra"
	"stillmotion/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.I18N(cfg.DefaultLocale),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/key", func(r chi.Router) {
		r.Get("/", app.KeyStatus)
		r.Post("/", app.KeySelect)
		r.Delete("/", app.KeyClear)
	})

	r.Post("/v1/generations", app.GenerationsCreate)

	r.Route("/v1/assets", func(r chi.Router) {
		r.Get("/{id}", app.AssetDownload)
		r.Delete("/{id}", app.AssetRevoke)
	})

	return r
}
