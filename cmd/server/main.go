package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/herald/internal/api"
	"github.com/dmitrymomot/herald/internal/config"
	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/dispatch"
	"github.com/dmitrymomot/herald/internal/ledger"
	"github.com/dmitrymomot/herald/internal/stats"
	"github.com/dmitrymomot/herald/internal/storage"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/cache"
	"github.com/dmitrymomot/herald/pkg/db"
	"github.com/dmitrymomot/herald/pkg/logger"
	"github.com/dmitrymomot/herald/pkg/mail"
	mailresend "github.com/dmitrymomot/herald/pkg/mail/resend"
	mailsmtp "github.com/dmitrymomot/herald/pkg/mail/smtp"
	"github.com/dmitrymomot/herald/pkg/queue"
)

const templateCacheTTL = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, storage.Migrations, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	templateCache, err := newTemplateCache(cfg)
	if err != nil {
		return err
	}
	defer templateCache.Close()

	templateOpts := []template.Option{
		template.WithCache(templateCache, templateCacheTTL),
		template.WithLogger(log),
	}
	engineOpts := []dispatch.Option{dispatch.WithLogger(log)}

	if cfg.Blob.Bucket != "" {
		blobs, err := blob.New(cfg.Blob)
		if err != nil {
			return err
		}
		templateOpts = append(templateOpts, template.WithBlobStorage(blobs))
		engineOpts = append(engineOpts, dispatch.WithBlobStorage(blobs))
	}

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	templates := template.NewService(template.NewPgStore(pool), templateOpts...)

	contactOpts := []contact.Option{contact.WithLogger(log)}
	if cfg.IngestCityFilter != "" {
		contactOpts = append(contactOpts, contact.WithCityFilter(cfg.IngestCityFilter))
	}
	contacts := contact.NewService(contact.NewPgStore(pool), contactOpts...)

	ledgerSvc := ledger.NewService(ledger.NewPgStore(pool))
	engine := dispatch.NewEngine(templates, contacts, ledgerSvc, sender, engineOpts...)
	statsSvc := stats.NewService(stats.NewPgSource(pool), ledgerSvc)

	enqueuer, err := queue.NewEnqueuer(pool, log)
	if err != nil {
		return err
	}

	handlers := api.NewHandlers(templates, contacts, engine, statsSvc, enqueuer, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handlers.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newTemplateCache picks Redis when configured, in-memory otherwise.
func newTemplateCache(cfg *config.Config) (cache.Cache[template.Template], error) {
	if cfg.RedisURL == "" {
		return cache.NewMemory[template.Template](), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	return cache.NewRedis[template.Template](client, cache.WithPrefix("herald:tmpl")), nil
}

// newSender builds the configured mail transport.
func newSender(cfg *config.Config) (mail.Sender, error) {
	switch cfg.MailProvider {
	case "resend":
		return mailresend.New(cfg.Resend), nil
	case "smtp":
		return mailsmtp.New(cfg.SMTP), nil
	default:
		return nil, errors.New("unknown mail provider: " + cfg.MailProvider)
	}
}
