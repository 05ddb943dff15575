package domain

import (
	"fmt"
	"time"
)

// TodoStatus is the lifecycle state of a todo. Completed is terminal.
type TodoStatus string

const (
	TodoStatusNotStarted TodoStatus = "not_started"
	TodoStatusInProgress TodoStatus = "in_progress"
	TodoStatusCompleted  TodoStatus = "completed"
)

// ParseTodoStatus validates a persisted status value.
func ParseTodoStatus(raw string) (TodoStatus, error) {
	switch TodoStatus(raw) {
	case TodoStatusNotStarted, TodoStatusInProgress, TodoStatusCompleted:
		return TodoStatus(raw), nil
	}
	return "", fmt.Errorf("%w: unknown todo status %q", ErrInvalidInput, raw)
}

// Todo is a task owned by exactly one Project. It enforces its own status
// state machine; cross-todo rules (dependency wiring, title uniqueness)
// belong to the Project aggregate, which is the only caller of the
// unexported mutators below.
type Todo struct {
	id           TodoID
	projectID    ProjectID
	title        TodoTitle
	description  TodoDescription
	status       TodoStatus
	dependencies DependencySet
	createdAt    time.Time
	updatedAt    time.Time
	completedAt  *time.Time
	clock        Clock
}

// NewTodo constructs a not-started todo with the given identity.
func NewTodo(id TodoID, projectID ProjectID, title TodoTitle, description TodoDescription, dependencies DependencySet, clock Clock) *Todo {
	if clock == nil {
		clock = SystemClock
	}
	now := clock.Now()
	return &Todo{
		id:           id,
		projectID:    projectID,
		title:        title,
		description:  description,
		status:       TodoStatusNotStarted,
		dependencies: dependencies,
		createdAt:    now,
		updatedAt:    now,
		clock:        clock,
	}
}

// RestoreTodo rehydrates a todo from storage without validation side effects.
func RestoreTodo(
	id TodoID,
	projectID ProjectID,
	title TodoTitle,
	description TodoDescription,
	status TodoStatus,
	dependencies DependencySet,
	createdAt, updatedAt time.Time,
	completedAt *time.Time,
	clock Clock,
) *Todo {
	if clock == nil {
		clock = SystemClock
	}
	return &Todo{
		id:           id,
		projectID:    projectID,
		title:        title,
		description:  description,
		status:       status,
		dependencies: dependencies,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
		completedAt:  completedAt,
		clock:        clock,
	}
}

func (t *Todo) ID() TodoID                   { return t.id }
func (t *Todo) ProjectID() ProjectID         { return t.projectID }
func (t *Todo) Title() TodoTitle             { return t.title }
func (t *Todo) Description() TodoDescription { return t.description }
func (t *Todo) Status() TodoStatus           { return t.status }
func (t *Todo) Dependencies() DependencySet  { return t.dependencies }
func (t *Todo) CreatedAt() time.Time         { return t.createdAt }
func (t *Todo) UpdatedAt() time.Time         { return t.updatedAt }

// CompletedAt returns the completion timestamp, or nil while not completed.
func (t *Todo) CompletedAt() *time.Time {
	if t.completedAt == nil {
		return nil
	}
	at := *t.completedAt
	return &at
}

// Start moves the todo from not-started to in-progress.
func (t *Todo) Start() error {
	if t.status != TodoStatusNotStarted {
		return fmt.Errorf("%w: todo %s is %s", ErrTodoAlreadyStarted, t.id, t.status)
	}
	t.status = TodoStatusInProgress
	t.updatedAt = t.clock.Now()
	return nil
}

// Complete moves the todo from in-progress to completed and stamps
// completedAt. Completed is terminal; repeat calls never touch timestamps.
func (t *Todo) Complete() error {
	if t.status == TodoStatusCompleted {
		return fmt.Errorf("%w: todo %s", ErrTodoAlreadyCompleted, t.id)
	}
	if t.status != TodoStatusInProgress {
		return fmt.Errorf("%w: todo %s", ErrTodoNotStarted, t.id)
	}
	now := t.clock.Now()
	t.status = TodoStatusCompleted
	t.completedAt = &now
	t.updatedAt = now
	return nil
}

func (t *Todo) IsCompleted() bool { return t.status == TodoStatusCompleted }

// IsOverdue reports whether now is past deadline. Completed todos are
// never overdue.
func (t *Todo) IsOverdue(deadline, now time.Time) bool {
	if t.IsCompleted() {
		return false
	}
	return now.After(deadline)
}

func (t *Todo) updateTitle(title TodoTitle) {
	t.title = title
	t.updatedAt = t.clock.Now()
}

func (t *Todo) updateDescription(description TodoDescription) {
	t.description = description
	t.updatedAt = t.clock.Now()
}

// setDependencies is Project-internal; the aggregate validates existence
// and acyclicity before calling it.
func (t *Todo) setDependencies(dependencies DependencySet) {
	t.dependencies = dependencies
	t.updatedAt = t.clock.Now()
}
