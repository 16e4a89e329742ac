// Package jobs holds the queue task handlers executed by cmd/worker.
package jobs

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/herald/internal/dispatch"
)

// TaskCampaignDispatch is the queue task name for bulk campaigns.
const TaskCampaignDispatch = "campaign:dispatch"

// CampaignPayload is the campaign:dispatch job payload.
type CampaignPayload struct {
	TemplateID uuid.UUID         `json:"template_id"`
	ListName   string            `json:"list_name"`
	Bindings   map[string]string `json:"bindings,omitempty"`
}

// Dispatcher is the dispatch engine surface the campaign task needs.
type Dispatcher interface {
	SendBulk(ctx context.Context, templateID uuid.UUID, listName string, bindings map[string]string) (*dispatch.BulkResult, error)
}

// CampaignDispatch runs a bulk campaign from the queue. Jobs are
// enqueued with a single attempt; per-recipient failures are already
// isolated inside SendBulk and a re-run would re-send to everyone.
type CampaignDispatch struct {
	engine Dispatcher
	log    *slog.Logger
}

// NewCampaignDispatch creates the campaign task handler.
func NewCampaignDispatch(engine Dispatcher, log *slog.Logger) *CampaignDispatch {
	if log == nil {
		log = slog.Default()
	}
	return &CampaignDispatch{engine: engine, log: log}
}

func (t *CampaignDispatch) Name() string { return TaskCampaignDispatch }

func (t *CampaignDispatch) Handle(ctx context.Context, p CampaignPayload) error {
	result, err := t.engine.SendBulk(ctx, p.TemplateID, p.ListName, p.Bindings)
	if err != nil {
		return err
	}

	t.log.InfoContext(ctx, "campaign dispatched",
		slog.String("template_id", p.TemplateID.String()),
		slog.String("list", p.ListName),
		slog.Int("total", result.Total),
		slog.Int("successful", result.Successful),
		slog.Int("failed", result.Failed),
	)

	return nil
}
