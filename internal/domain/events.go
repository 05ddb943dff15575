package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type identifiers as they appear in outbox rows.
const (
	EventTypeProjectCreated     = "ProjectCreated"
	EventTypeProjectDeleted     = "ProjectDeleted"
	EventTypeTodoCreated        = "TodoCreated"
	EventTypeTodoAddedToProject = "TodoAddedToProject"
)

// Event is an immutable record of an aggregate state transition. Payload
// returns the full serialized form, envelope fields included, which is
// exactly what lands in the outbox row.
type Event interface {
	EventID() uuid.UUID
	AggregateID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	Payload() ([]byte, error)
}

type baseEvent struct {
	eventID     uuid.UUID
	aggregateID uuid.UUID
	eventType   string
	occurredAt  time.Time
}

func newBaseEvent(aggregateID uuid.UUID, eventType string, occurredAt time.Time) baseEvent {
	return baseEvent{
		eventID:     uuid.New(),
		aggregateID: aggregateID,
		eventType:   eventType,
		occurredAt:  occurredAt,
	}
}

func (e baseEvent) EventID() uuid.UUID     { return e.eventID }
func (e baseEvent) AggregateID() uuid.UUID { return e.aggregateID }
func (e baseEvent) EventType() string      { return e.eventType }
func (e baseEvent) OccurredAt() time.Time  { return e.occurredAt }

// envelope merges the shared event fields with event-specific ones.
func (e baseEvent) envelope(fields map[string]any) ([]byte, error) {
	payload := map[string]any{
		"event_id":     e.eventID.String(),
		"event_type":   e.eventType,
		"aggregate_id": e.aggregateID.String(),
		"occurred_at":  e.occurredAt.Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		payload[k] = v
	}
	return json.Marshal(payload)
}

func descriptionField(raw string) any {
	if raw == "" {
		return nil
	}
	return raw
}

// ProjectCreated is emitted when a new project is created.
type ProjectCreated struct {
	baseEvent
	projectID   ProjectID
	name        ProjectName
	description ProjectDescription
}

func NewProjectCreated(projectID ProjectID, name ProjectName, description ProjectDescription, occurredAt time.Time) ProjectCreated {
	return ProjectCreated{
		baseEvent:   newBaseEvent(projectID.UUID(), EventTypeProjectCreated, occurredAt),
		projectID:   projectID,
		name:        name,
		description: description,
	}
}

func (e ProjectCreated) Payload() ([]byte, error) {
	return e.envelope(map[string]any{
		"project_id":  e.projectID.String(),
		"name":        e.name.String(),
		"description": descriptionField(e.description.String()),
	})
}

// ProjectDeleted is emitted when a project is deleted.
type ProjectDeleted struct {
	baseEvent
	projectID   ProjectID
	name        ProjectName
	description ProjectDescription
}

func NewProjectDeleted(projectID ProjectID, name ProjectName, description ProjectDescription, occurredAt time.Time) ProjectDeleted {
	return ProjectDeleted{
		baseEvent:   newBaseEvent(projectID.UUID(), EventTypeProjectDeleted, occurredAt),
		projectID:   projectID,
		name:        name,
		description: description,
	}
}

func (e ProjectDeleted) Payload() ([]byte, error) {
	return e.envelope(map[string]any{
		"project_id":  e.projectID.String(),
		"name":        e.name.String(),
		"description": descriptionField(e.description.String()),
	})
}

// TodoCreated is emitted when a todo is created inside a project. The
// aggregate id is the todo's id, matching the downstream history consumer.
type TodoCreated struct {
	baseEvent
	todoID      TodoID
	projectID   ProjectID
	title       TodoTitle
	description TodoDescription
}

func NewTodoCreated(todoID TodoID, projectID ProjectID, title TodoTitle, description TodoDescription, occurredAt time.Time) TodoCreated {
	return TodoCreated{
		baseEvent:   newBaseEvent(todoID.UUID(), EventTypeTodoCreated, occurredAt),
		todoID:      todoID,
		projectID:   projectID,
		title:       title,
		description: description,
	}
}

func (e TodoCreated) Payload() ([]byte, error) {
	return e.envelope(map[string]any{
		"todo_id":     e.todoID.String(),
		"project_id":  e.projectID.String(),
		"title":       e.title.String(),
		"description": descriptionField(e.description.String()),
	})
}

// TodoAddedToProject is emitted when a pre-built todo entity joins a
// project. The aggregate id is the project's id.
type TodoAddedToProject struct {
	baseEvent
	projectID ProjectID
	todoID    TodoID
	todoTitle TodoTitle
}

func NewTodoAddedToProject(projectID ProjectID, todoID TodoID, todoTitle TodoTitle, occurredAt time.Time) TodoAddedToProject {
	return TodoAddedToProject{
		baseEvent: newBaseEvent(projectID.UUID(), EventTypeTodoAddedToProject, occurredAt),
		projectID: projectID,
		todoID:    todoID,
		todoTitle: todoTitle,
	}
}

func (e TodoAddedToProject) Payload() ([]byte, error) {
	return e.envelope(map[string]any{
		"project_id": e.projectID.String(),
		"todo_id":    e.todoID.String(),
		"todo_title": e.todoTitle.String(),
	})
}

// EventPublisher accumulates events emitted during one unit-of-work scope.
// It performs no I/O; the unit of work drains it into the outbox at commit
// time. Each scope gets its own instance, never a process-wide singleton,
// so concurrent requests cannot interleave their event buffers. Not safe
// for shared use across goroutines by construction.
type EventPublisher struct {
	events []Event
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{}
}

// Publish appends an event to the buffer.
func (p *EventPublisher) Publish(event Event) {
	p.events = append(p.events, event)
}

// Events returns a snapshot of the buffer.
func (p *EventPublisher) Events() []Event {
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Clear resets the buffer.
func (p *EventPublisher) Clear() {
	p.events = nil
}
