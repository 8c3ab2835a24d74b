package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stillmotion/internal/assets"
	"stillmotion/internal/http/handlers"
	httpapi "stillmotion/internal/http/httpapi"
	"stillmotion/internal/infra"
	"stillmotion/internal/infra/credentials"
	"stillmotion/internal/service"
	"stillmotion/internal/videogen"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	creds := credentials.NewStore(cfg.GeminiAPIKey)
	if !creds.Has() {
		logger.Warn().Msg("no GEMINI_API_KEY configured, waiting for key selection")
	}

	client, err := videogen.NewClient(videogen.Options{
		Credentials:  creds,
		BaseURL:      cfg.GeminiBaseURL,
		Model:        cfg.VideoModel,
		HTTPClient:   &http.Client{Timeout: 120 * time.Second},
		PollInterval: cfg.PollInterval,
		PollTimeout:  cfg.PollTimeout,
		Logger:       &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure video client")
	}

	registry := assets.NewRegistry(cfg.AssetTTL)
	generator := service.NewGenerator(creds, client, registry, logger)

	app := handlers.NewApp(generator, registry, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", client.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
