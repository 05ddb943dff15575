package domain

import (
	"errors"
	"testing"
	"time"
)

// stepClock advances a fixed amount on every Now call so timestamp
// ordering is deterministic in tests.
type stepClock struct {
	current time.Time
	step    time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		step:    time.Second,
	}
}

func (c *stepClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

func newTestTodo(t *testing.T, clock Clock) *Todo {
	t.Helper()
	title, err := NewTodoTitle("write report")
	if err != nil {
		t.Fatalf("title: %v", err)
	}
	desc, err := NewTodoDescription("quarterly numbers")
	if err != nil {
		t.Fatalf("description: %v", err)
	}
	return NewTodo(NewTodoID(), NewProjectID(), title, desc, EmptyDependencySet(), clock)
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()

	todo := newTestTodo(t, newStepClock())
	if todo.Status() != TodoStatusNotStarted {
		t.Fatalf("new todo should be not_started, got %s", todo.Status())
	}
	if todo.CompletedAt() != nil {
		t.Fatalf("new todo should have nil completedAt")
	}

	if err := todo.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if todo.Status() != TodoStatusInProgress {
		t.Fatalf("expected in_progress, got %s", todo.Status())
	}

	if err := todo.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if todo.Status() != TodoStatusCompleted {
		t.Fatalf("expected completed, got %s", todo.Status())
	}
	if todo.CompletedAt() == nil {
		t.Fatalf("completed todo should have completedAt set")
	}
	if !todo.CompletedAt().Equal(todo.UpdatedAt()) {
		t.Fatalf("completedAt should equal updatedAt at completion")
	}
}

func TestTodoStartRejectsNonInitialStates(t *testing.T) {
	t.Parallel()

	todo := newTestTodo(t, newStepClock())
	if err := todo.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := todo.Start(); !errors.Is(err, ErrTodoAlreadyStarted) {
		t.Fatalf("expected ErrTodoAlreadyStarted, got %v", err)
	}

	if err := todo.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if err := todo.Start(); !errors.Is(err, ErrTodoAlreadyStarted) {
		t.Fatalf("starting a completed todo should fail, got %v", err)
	}
}

func TestTodoCompleteRequiresInProgress(t *testing.T) {
	t.Parallel()

	todo := newTestTodo(t, newStepClock())
	if err := todo.Complete(); !errors.Is(err, ErrTodoNotStarted) {
		t.Fatalf("completing a not-started todo should fail, got %v", err)
	}
}

func TestTodoCompleteIsTerminal(t *testing.T) {
	t.Parallel()

	todo := newTestTodo(t, newStepClock())
	if err := todo.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := todo.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	completedAt := *todo.CompletedAt()
	updatedAt := todo.UpdatedAt()

	if err := todo.Complete(); !errors.Is(err, ErrTodoAlreadyCompleted) {
		t.Fatalf("expected ErrTodoAlreadyCompleted, got %v", err)
	}
	if !todo.CompletedAt().Equal(completedAt) {
		t.Fatalf("repeat complete must not touch completedAt")
	}
	if !todo.UpdatedAt().Equal(updatedAt) {
		t.Fatalf("repeat complete must not touch updatedAt")
	}
}

func TestTodoIsOverdue(t *testing.T) {
	t.Parallel()

	todo := newTestTodo(t, newStepClock())
	deadline := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	if todo.IsOverdue(deadline, deadline.Add(-time.Hour)) {
		t.Fatalf("todo before deadline should not be overdue")
	}
	if !todo.IsOverdue(deadline, deadline.Add(time.Hour)) {
		t.Fatalf("todo past deadline should be overdue")
	}

	if err := todo.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := todo.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if todo.IsOverdue(deadline, deadline.Add(time.Hour)) {
		t.Fatalf("completed todo is never overdue")
	}
}

func TestParseTodoStatus(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"not_started", "in_progress", "completed"} {
		if _, err := ParseTodoStatus(raw); err != nil {
			t.Fatalf("parse %q failed: %v", raw, err)
		}
	}
	if _, err := ParseTodoStatus("done"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}
