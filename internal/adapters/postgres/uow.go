package postgres

import (
	"context"
	"fmt"

	"github.com/planbound/projects-service/internal/domain"
	"github.com/planbound/projects-service/internal/ports"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork builds the transactional-outbox unit of work over a GORM
// connection pool.
func NewUnitOfWork(db *gorm.DB) ports.UnitOfWork {
	return &unitOfWork{db: db}
}

type txScope struct {
	projects  ports.ProjectRepository
	publisher *domain.EventPublisher
}

func (s *txScope) Projects() ports.ProjectRepository { return s.projects }
func (s *txScope) Events() *domain.EventPublisher    { return s.publisher }

// Do runs fn inside one storage transaction with a scope-local event
// publisher. When fn returns nil, every accumulated event becomes one
// outbox row through the same transaction before the commit; an error or
// panic anywhere rolls the whole thing back, so partially flushed rows
// never become visible. GORM releases the connection on every path.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, scope ports.UnitOfWorkScope) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := &txScope{
			projects:  &projectRepository{db: tx},
			publisher: domain.NewEventPublisher(),
		}
		if err := fn(ctx, scope); err != nil {
			return err
		}
		return flushOutbox(ctx, tx, scope.publisher.Events())
	})
}

func flushOutbox(ctx context.Context, tx *gorm.DB, events []domain.Event) error {
	for _, event := range events {
		payload, err := event.Payload()
		if err != nil {
			return fmt.Errorf("serialize event %s: %w", event.EventType(), err)
		}
		row := outboxModel{
			ID:          event.EventID(),
			AggregateID: event.AggregateID(),
			EventType:   event.EventType(),
			Payload:     string(payload),
			Published:   false,
			CreatedAt:   event.OccurredAt(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("flush outbox event %s: %w", event.EventType(), err)
		}
	}
	return nil
}
