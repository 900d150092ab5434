package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/robfig/cron/v3"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent/api"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent/config"
)

// EnvConfig is the flat environment surface of the server shell.
type EnvConfig struct {
	Port            string `env:"PORT" env-default:"8080"`
	Environment     string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL     string `env:"DATABASE_URL" env-default:"memory"`
	PublishInterval string `env:"PUBLISH_INTERVAL" env-default:"1m"`
	JWTSecret       string `env:"JWT_SECRET" env-default:"dev-secret"`
}

func main() {
	var envCfg EnvConfig
	if err := cleanenv.ReadEnv(&envCfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(
		withEnvConfig(envCfg),
		config.WithEnv(""), // picks up the MAX_* limit overrides
	)
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	// HTTP shell
	tokenAuth := api.NewTokenAuth(serverConfig.JWTSecret)
	handler := api.NewItemHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	api.Mount(r, tokenAuth, handler)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	// Publish ticks. SkipIfStillRunning keeps a slow run from stacking ticks
	// in this process; cross-process overlap is handled by the claim
	// transition inside PublishDue.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(fmt.Sprintf("@every %s", serverConfig.PublishInterval), func() {
		tickCtx, cancel := context.WithTimeout(context.Background(), serverConfig.PublishInterval)
		defer cancel()

		result, err := svc.PublishDue(tickCtx)
		if err != nil {
			slog.Error("Publish run failed", "err", err)
			return
		}
		if result.Published > 0 || result.Failed > 0 || result.Skipped > 0 {
			slog.Info("Publish run finished",
				"published", result.Published, "failed", result.Failed, "skipped", result.Skipped)
		}
	})
	if err != nil {
		slog.Error("Failed to schedule publish run", "err", err)
		os.Exit(1)
	}
	c.Start()

	go func() {
		slog.Info("Scheduled Content Server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"publish_interval", serverConfig.PublishInterval.String())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	// Stop picking up new publish ticks; a running tick finishes.
	<-c.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// withEnvConfig maps the cleanenv struct onto the library configuration.
func withEnvConfig(env EnvConfig) config.Option {
	return func(c *config.ServerConfig) error {
		c.Port = env.Port
		c.Environment = env.Environment
		c.JWTSecret = env.JWTSecret

		d, err := time.ParseDuration(env.PublishInterval)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_INTERVAL: %w", err)
		}
		c.PublishInterval = d

		return config.WithDatabaseURL(env.DatabaseURL)(c)
	}
}
