package postgres

import (
	"time"

	"github.com/google/uuid"
)

type projectModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (projectModel) TableName() string { return "projects" }

// todoModel stores dependencies as a JSONB array of todo id strings. The
// aggregate is split across projects/todos for row-level access, but every
// todo write happens inside its project's transaction.
type todoModel struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	ProjectID    uuid.UUID  `gorm:"column:project_id;type:uuid;index"`
	Title        string     `gorm:"column:title"`
	Description  *string    `gorm:"column:description"`
	Status       string     `gorm:"column:status"`
	Dependencies string     `gorm:"column:dependencies;type:jsonb"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at"`
}

func (todoModel) TableName() string { return "todos" }

// outboxModel is the durable event contract relied on by downstream
// relays: only the relay ever flips published.
type outboxModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	AggregateID uuid.UUID `gorm:"column:aggregate_id;type:uuid"`
	EventType   string    `gorm:"column:event_type"`
	Payload     string    `gorm:"column:payload;type:jsonb"`
	Published   bool      `gorm:"column:published"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "outbox" }
