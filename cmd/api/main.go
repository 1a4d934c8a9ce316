package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sahilahmad48178-star/AI-image/internal/db"
	"github.com/sahilahmad48178-star/AI-image/internal/editor"
	"github.com/sahilahmad48178-star/AI-image/internal/http/handlers"
	"github.com/sahilahmad48178-star/AI-image/internal/http/httpapi"
	"github.com/sahilahmad48178-star/AI-image/internal/infra"
	"github.com/sahilahmad48178-star/AI-image/internal/infra/geoip"
	"github.com/sahilahmad48178-star/AI-image/internal/middleware"
	"github.com/sahilahmad48178-star/AI-image/internal/providers/genai"
	"github.com/sahilahmad48178-star/AI-image/internal/providers/image"
	"github.com/sahilahmad48178-star/AI-image/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer pool.Close()

	storagePath := cfg.StoragePath
	if !filepath.IsAbs(storagePath) {
		if abs, err := filepath.Abs(storagePath); err == nil {
			storagePath = abs
		}
	}
	store, err := storage.NewFileStore(storagePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure storage")
	}

	geminiClient, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: failed to configure gemini client")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Str("model", geminiClient.Model()).Msg("api: gemini api key missing, magic edits use local fallbacks")
	}

	bridge := editor.NewBridge(image.NewGeminiEditor(geminiClient), logger)
	sessions := editor.NewManager(bridge, logger, cfg.SessionTTL)
	go sweepSessions(ctx, sessions, logger)

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("api: geoip resolver unavailable")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(cfg, logger, db.New(pool), store, sessions)
	router := httpapi.NewRouter(app, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api: listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: shutdown failed")
	}
	logger.Info().Msg("api: stopped")
}

func sweepSessions(ctx context.Context, sessions *editor.Manager, logger infra.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now); n > 0 {
				logger.Debug().Int("sessions", n).Msg("api: swept expired editor sessions")
			}
		}
	}
}
