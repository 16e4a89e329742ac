// Package queue provides background task processing backed by River.
//
// Tasks are registered by name and dispatched through a single River
// worker kind, so adding a task never requires a new River worker type.
// The payload is decoded into the type the task's Handle accepts.
//
// # Usage
//
//	type CampaignDispatch struct {
//		engine *dispatch.Engine
//	}
//
//	func (t *CampaignDispatch) Name() string { return "campaign:dispatch" }
//	func (t *CampaignDispatch) Handle(ctx context.Context, p CampaignPayload) error {
//		...
//	}
//
//	mgr, err := queue.NewManager(pool,
//		queue.WithTask[CampaignPayload](jobs.NewCampaignDispatch(engine)),
//		queue.WithLogger(log),
//	)
//
// Scheduled tasks run on a cron expression:
//
//	func (t *DailyDigest) Schedule() string { return "0 6 * * *" }
//
// API processes that only enqueue use NewEnqueuer, which creates the
// River client in insert-only mode.
package queue
