package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config holds logger settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Level       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string     `env:"SENTRY_DSN"`
	Environment string     `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON logger. With a Sentry DSN configured, error records
// create Sentry issues and warnings are kept as searchable logs; without
// one, or when Sentry initialization fails, logging falls back to stdout
// only.
func New(cfg Config) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})

	if cfg.SentryDSN == "" {
		return slog.New(stdout)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("sentry init failed", slog.Any("error", err))
		return slog.New(stdout)
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}.NewSentryHandler(context.Background())

	return slog.New(multiHandler{stdout, sentryHandler})
}
