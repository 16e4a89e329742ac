// Package logger builds the application slog.Logger.
//
// New returns a JSON logger writing to stdout. When a Sentry DSN is
// configured, warnings and errors are mirrored to Sentry as well:
//
//	log := logger.New(logger.Config{
//	    SentryDSN:   os.Getenv("SENTRY_DSN"),
//	    Environment: "production",
//	})
//
// An empty DSN degrades gracefully to stdout-only logging, which keeps
// local development free of external dependencies.
package logger
