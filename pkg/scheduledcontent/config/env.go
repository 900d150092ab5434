package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// WithEnv applies environment variable overrides using the provided prefix.
//
// Environment variable mapping:
//
//	PORT             - Server port (default: "8080")
//	ENVIRONMENT      - Runtime environment (default: "development")
//	DATABASE_URL     - "memory" (default) or a postgresql:// connection string
//	PUBLISH_INTERVAL - Publish tick cadence, Go duration (default: "1m")
//	JWT_SECRET       - HMAC secret for the identity middleware
//	MAX_CONTENT_LENGTH, MAX_IMAGES, MAX_VIDEOS - static membership limits
func WithEnv(prefix string) Option {
	return func(c *ServerConfig) error {
		if v, ok := lookupEnv(prefix, "PORT"); ok && v != "" {
			c.Port = v
		}
		if v, ok := lookupEnv(prefix, "ENVIRONMENT"); ok && v != "" {
			c.Environment = v
		}

		if err := applyDatabaseEnv(prefix, c); err != nil {
			return err
		}

		if v, ok := lookupEnv(prefix, "PUBLISH_INTERVAL"); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid PUBLISH_INTERVAL: %w", err)
			}
			c.PublishInterval = d
		}

		if v, ok := lookupEnv(prefix, "JWT_SECRET"); ok && v != "" {
			c.JWTSecret = v
		}

		return applyLimitEnv(prefix, c)
	}
}

// applyDatabaseEnv applies database configuration from environment
func applyDatabaseEnv(prefix string, c *ServerConfig) error {
	dbURL, hasURL := lookupEnv(prefix, "DATABASE_URL")
	if !hasURL {
		return nil
	}
	return WithDatabaseURL(dbURL)(c)
}

// WithDatabaseURL sets the database from a connection string, auto-detecting
// the database type. "memory" or the empty string select the in-memory
// repository.
func WithDatabaseURL(dbURL string) Option {
	return func(c *ServerConfig) error {
		if dbURL == "" || dbURL == "memory" {
			c.DatabaseType = "memory"
			c.DatabaseURL = ""
			return nil
		}

		if strings.HasPrefix(dbURL, "postgresql://") || strings.HasPrefix(dbURL, "postgres://") {
			c.DatabaseType = "postgres"
			c.DatabaseURL = dbURL
			return nil
		}

		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", dbURL)
	}
}

// applyLimitEnv applies static membership limits from environment
func applyLimitEnv(prefix string, c *ServerConfig) error {
	if v, ok := lookupEnv(prefix, "MAX_CONTENT_LENGTH"); ok && v != "" {
		n, err := parsePositive(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_CONTENT_LENGTH: %w", err)
		}
		c.DefaultLimits.MaxContentLength = n
	}
	if v, ok := lookupEnv(prefix, "MAX_IMAGES"); ok && v != "" {
		n, err := parsePositive(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_IMAGES: %w", err)
		}
		c.DefaultLimits.MaxImages = n
	}
	if v, ok := lookupEnv(prefix, "MAX_VIDEOS"); ok && v != "" {
		n, err := parsePositive(v)
		if err != nil {
			return fmt.Errorf("invalid MAX_VIDEOS: %w", err)
		}
		c.DefaultLimits.MaxVideos = n
	}
	return nil
}

func parsePositive(v string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

func lookupEnv(prefix, key string) (string, bool) {
	if prefix != "" {
		if v, ok := os.LookupEnv(prefix + "_" + key); ok {
			return v, true
		}
	}
	return os.LookupEnv(key)
}
