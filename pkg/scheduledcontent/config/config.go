package config

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent"
	"github.com/tendant/scheduled-content/pkg/scheduledcontent/api"
	cstorememory "github.com/tendant/scheduled-content/pkg/scheduledcontent/contentstore/memory"
	cstorepg "github.com/tendant/scheduled-content/pkg/scheduledcontent/contentstore/postgres"
	repomemory "github.com/tendant/scheduled-content/pkg/scheduledcontent/repo/memory"
	repopg "github.com/tendant/scheduled-content/pkg/scheduledcontent/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:            "8080",
		Environment:     "development",
		DatabaseType:    "memory",
		PublishInterval: time.Minute,
		JWTSecret:       "dev-secret",
		DefaultLimits: scheduledcontent.Limits{
			MaxContentLength: 2000,
			MaxImages:        4,
			MaxVideos:        1,
		},
	}
}

// ServerConfig represents server configuration for the scheduled-content service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Publishing configuration
	PublishInterval time.Duration

	// Identity configuration
	JWTSecret string

	// DefaultLimits backs the built-in static limit provider. Deployments
	// with a real membership service supply their own provider to
	// BuildServiceWith.
	DefaultLimits scheduledcontent.Limits
}

// Validate checks the configuration for inconsistencies.
func (c *ServerConfig) Validate() error {
	switch c.DatabaseType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	if c.PublishInterval <= 0 {
		return fmt.Errorf("publish interval must be positive")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	return nil
}

// BuildService wires a Service from the configuration using the built-in
// static limit provider and the JWT identity resolver.
func (c *ServerConfig) BuildService(ctx context.Context) (scheduledcontent.Service, error) {
	return c.BuildServiceWith(ctx,
		api.TokenIdentityResolver{},
		scheduledcontent.StaticLimitProvider{Limits: c.DefaultLimits})
}

// BuildServiceWith wires a Service from the configuration with
// caller-supplied identity and limit collaborators.
func (c *ServerConfig) BuildServiceWith(ctx context.Context, identity scheduledcontent.IdentityResolver, limits scheduledcontent.LimitProvider) (scheduledcontent.Service, error) {
	var (
		repo  scheduledcontent.Repository
		store scheduledcontent.ContentStore
	)

	switch c.DatabaseType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		repo = repopg.NewWithPool(pool)
		store = cstorepg.NewWithPool(pool)
	default:
		repo = repomemory.New()
		store = cstorememory.New()
	}

	return scheduledcontent.New(
		scheduledcontent.WithRepository(repo),
		scheduledcontent.WithContentStore(store),
		scheduledcontent.WithIdentityResolver(identity),
		scheduledcontent.WithLimitProvider(limits),
	)
}
