package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/planbound/projects-service/internal/domain"
)

// ProjectRepository persists whole Project aggregates. Save upserts the
// project row and every contained todo, and deletes rows for todos that
// were removed from the in-memory aggregate since it was loaded; a todo
// is never written outside its project's transaction.
type ProjectRepository interface {
	FindByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error)
	FindAll(ctx context.Context, limit int) ([]*domain.Project, error)
	Save(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id domain.ProjectID) error
}

// OutboxRecord is one durable domain-event row pending relay. The relay
// process flips Published; nothing else ever mutates a row.
type OutboxRecord struct {
	ID          uuid.UUID
	AggregateID uuid.UUID
	EventType   string
	Payload     []byte
	Published   bool
	CreatedAt   time.Time
}

// OutboxRepository is the read side of the outbox, consumed only by the
// relay worker. Rows are inserted by the unit of work, inside the same
// transaction as the aggregate write that produced them.
type OutboxRepository interface {
	ListUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
}
