// Package config assembles application configuration from environment
// variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/db"
	"github.com/dmitrymomot/herald/pkg/logger"
	mailresend "github.com/dmitrymomot/herald/pkg/mail/resend"
	mailsmtp "github.com/dmitrymomot/herald/pkg/mail/smtp"
)

// Config is the full application configuration.
type Config struct {
	// HTTP server bind address.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Mail provider: "resend" or "smtp".
	MailProvider string `env:"MAIL_PROVIDER" envDefault:"resend"`

	// Optional city substring filter for webhook contact ingestion.
	IngestCityFilter string `env:"INGEST_CITY_FILTER"`

	// Optional Redis URL for the template read cache; in-memory when empty.
	RedisURL string `env:"REDIS_URL"`

	// Worker counts for the campaign queue.
	QueueMaxWorkers int `env:"QUEUE_MAX_WORKERS" envDefault:"10"`

	DB     db.Config
	Logger logger.Config
	Blob   blob.Config
	Resend mailresend.Config
	SMTP   mailsmtp.Config
}

// Load reads .env when present and parses the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return &cfg, nil
}
