package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/planbound/projects-service/internal/ports"
)

// OutboxWorker polls committed-but-unpublished outbox rows and relays
// them. Delivery is at-least-once: a crash between Publish and
// MarkPublished re-delivers on the next pass. The transactional write
// side never depends on this loop being up.
type OutboxWorker struct {
	logger    *slog.Logger
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	interval  time.Duration
	batchSize int
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	interval time.Duration,
	batchSize int,
) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxWorker{
		logger:    logger,
		outbox:    outbox,
		publisher: publisher,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run executes the periodic relay loop until context cancellation.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.ProcessOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "outbox_process_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ProcessOnce relays a single batch.
func (w *OutboxWorker) ProcessOnce(ctx context.Context) error {
	records, err := w.outbox.ListUnpublished(ctx, w.batchSize)
	if err != nil {
		return err
	}

	published := 0
	failed := 0
	for _, rec := range records {
		if err := w.publisher.Publish(ctx, rec.EventType, rec.Payload); err != nil {
			failed++
			w.logger.WarnContext(ctx, "outbox publish failed; row stays pending",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "publish_event",
				"outcome", "failure",
				"outbox_id", rec.ID,
				"event_type", rec.EventType,
				"error", err,
			)
			continue
		}
		if err := w.outbox.MarkPublished(ctx, rec.ID); err != nil {
			failed++
			w.logger.WarnContext(ctx, "outbox mark published failed",
				"module", "events.outbox_worker",
				"layer", "adapter",
				"operation", "mark_published",
				"outcome", "failure",
				"outbox_id", rec.ID,
				"error", err,
			)
			continue
		}
		published++
	}
	if len(records) > 0 {
		w.logger.InfoContext(ctx, "outbox batch processed",
			"module", "events.outbox_worker",
			"layer", "adapter",
			"operation", "outbox_process_once",
			"outcome", "success",
			"batch_size", len(records),
			"published_count", published,
			"failed_count", failed,
		)
	}
	return nil
}
