package jobs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/herald/internal/stats"
)

// OverviewSource provides the reporting snapshot for the digest.
type OverviewSource interface {
	Overview(ctx context.Context) (*stats.Overview, error)
}

// DailyDigest logs a reporting snapshot every morning.
type DailyDigest struct {
	stats OverviewSource
	log   *slog.Logger
}

// NewDailyDigest creates the digest task.
func NewDailyDigest(src OverviewSource, log *slog.Logger) *DailyDigest {
	if log == nil {
		log = slog.Default()
	}
	return &DailyDigest{stats: src, log: log}
}

func (t *DailyDigest) Name() string     { return "stats:daily_digest" }
func (t *DailyDigest) Schedule() string { return "0 6 * * *" }

func (t *DailyDigest) Handle(ctx context.Context) error {
	overview, err := t.stats.Overview(ctx)
	if err != nil {
		return err
	}

	totalSends := 0
	for _, u := range overview.Usage {
		totalSends += u.TotalSends
	}

	t.log.InfoContext(ctx, "daily digest",
		slog.Int("contacts", overview.Contacts.Total),
		slog.Int("contacts_sent", overview.Contacts.Sent),
		slog.Int("templates_active", overview.Templates.Active),
		slog.Int("total_sends", totalSends),
		slog.String("lists", strings.Join(overview.Lists, ",")),
	)

	return nil
}
