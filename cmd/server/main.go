package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/cesargomez89/statify/internal/app"
	"github.com/cesargomez89/statify/internal/config"
	httpapp "github.com/cesargomez89/statify/internal/http"
	"github.com/cesargomez89/statify/internal/logger"
	"github.com/cesargomez89/statify/internal/spotify"
	"github.com/cesargomez89/statify/internal/store"
	"github.com/cesargomez89/statify/internal/worker"
)

func main() {
	// A missing .env is fine; the environment may carry everything already.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	settings := store.NewSettingsRepo(db)
	auth := spotify.NewAuthenticator(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI)

	sessions := app.NewSessionManager(db, settings, auth, cfg.CacheTTL, appLogger)
	syncService := app.NewSyncService(db, sessions, appLogger)
	statsService := app.NewStatsService(db)
	artworkService := app.NewArtworkService(db, appLogger, cfg.CacheTTL)

	w := worker.NewWorker(db, syncService, cfg.SyncInterval, appLogger)
	w.Start()
	defer w.Stop()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(sessions, syncService, statsService, artworkService, cfg.Username, cfg.Password, appLogger)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	appLogger.Info("Server exiting")
}
