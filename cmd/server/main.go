package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/cityguide-blog-api/internal/api"
	"github.com/cityguide-blog-api/internal/config"
	"github.com/cityguide-blog-api/internal/database"
	"github.com/cityguide-blog-api/internal/notify"
	"github.com/cityguide-blog-api/internal/repository"
	"github.com/cityguide-blog-api/internal/service"
	"github.com/cityguide-blog-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Env:    cfg.Log.Env,
	})
	log.Info().Msg("Starting city guide blog API server...")

	// Initialize database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// "server migrate-down [steps]" rolls back and exits
	if len(os.Args) > 1 && os.Args[1] == "migrate-down" {
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil {
				log.Fatal().Str("steps", os.Args[2]).Msg("migrate-down expects a number of steps")
			}
		}
		if err := db.Rollback(cfg.Database.MigrationsPath, steps); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migrations")
		}
		return
	}

	// Run migrations
	if _, err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	repos := repository.New(db)

	// Initialize services
	services := service.NewServices(repos, cfg, newNotifier(cfg, log), log)

	// Initialize router
	router := api.NewRouter(services, cfg, db, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

// newNotifier returns the contact webhook notifier, or a no-op one when no
// webhook is configured
func newNotifier(cfg *config.Config, log zerolog.Logger) notify.Notifier {
	if cfg.Notify.WebhookURL == "" {
		log.Info().Msg("Contact notifications disabled")
		return notify.NoopNotifier{}
	}
	opts := notify.DefaultWebhookOptions(cfg.Notify.WebhookURL, cfg.Notify.WebhookTimeout)
	return notify.NewWebhookNotifier(opts, log)
}
