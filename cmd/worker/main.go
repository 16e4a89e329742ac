package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrymomot/herald/internal/config"
	"github.com/dmitrymomot/herald/internal/contact"
	"github.com/dmitrymomot/herald/internal/dispatch"
	"github.com/dmitrymomot/herald/internal/jobs"
	"github.com/dmitrymomot/herald/internal/ledger"
	"github.com/dmitrymomot/herald/internal/stats"
	"github.com/dmitrymomot/herald/internal/template"
	"github.com/dmitrymomot/herald/pkg/blob"
	"github.com/dmitrymomot/herald/pkg/db"
	"github.com/dmitrymomot/herald/pkg/logger"
	"github.com/dmitrymomot/herald/pkg/mail"
	mailresend "github.com/dmitrymomot/herald/pkg/mail/resend"
	mailsmtp "github.com/dmitrymomot/herald/pkg/mail/smtp"
	"github.com/dmitrymomot/herald/pkg/queue"
)

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
		log.Error("worker exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}

	engineOpts := []dispatch.Option{dispatch.WithLogger(log)}
	if cfg.Blob.Bucket != "" {
		blobs, err := blob.New(cfg.Blob)
		if err != nil {
			return err
		}
		engineOpts = append(engineOpts, dispatch.WithBlobStorage(blobs))
	}

	templates := template.NewService(template.NewPgStore(pool), template.WithLogger(log))
	contacts := contact.NewService(contact.NewPgStore(pool), contact.WithLogger(log))
	ledgerSvc := ledger.NewService(ledger.NewPgStore(pool))
	engine := dispatch.NewEngine(templates, contacts, ledgerSvc, sender, engineOpts...)
	statsSvc := stats.NewService(stats.NewPgSource(pool), ledgerSvc)

	manager, err := queue.NewManager(pool,
		queue.WithTask[jobs.CampaignPayload](jobs.NewCampaignDispatch(engine, log)),
		queue.WithScheduledTask(jobs.NewDailyDigest(statsSvc, log)),
		queue.WithMaxWorkers(cfg.QueueMaxWorkers),
		queue.WithLogger(log),
	)
	if err != nil {
		return err
	}

	if err := manager.Start(ctx); err != nil {
		return err
	}
	log.Info("worker started")

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Info("shutting down")
	return manager.Stop(stopCtx)
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
