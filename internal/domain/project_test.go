package domain

import (
	"errors"
	"fmt"
	"testing"
)

func newTestProject(t *testing.T) (*Project, *EventPublisher) {
	t.Helper()
	name, err := NewProjectName("website relaunch")
	if err != nil {
		t.Fatalf("name: %v", err)
	}
	desc, err := NewProjectDescription("q3 marketing site")
	if err != nil {
		t.Fatalf("description: %v", err)
	}
	publisher := NewEventPublisher()
	return NewProjectWithClock(name, desc, publisher, newStepClock()), publisher
}

func mustTitle(t *testing.T, raw string) TodoTitle {
	t.Helper()
	title, err := NewTodoTitle(raw)
	if err != nil {
		t.Fatalf("title %q: %v", raw, err)
	}
	return title
}

func mustDescription(t *testing.T, raw string) TodoDescription {
	t.Helper()
	desc, err := NewTodoDescription(raw)
	if err != nil {
		t.Fatalf("description %q: %v", raw, err)
	}
	return desc
}

func addTodo(t *testing.T, p *Project, publisher *EventPublisher, title string, deps ...TodoID) *Todo {
	t.Helper()
	todo, err := p.AddTodo(publisher, mustTitle(t, title), mustDescription(t, ""), deps)
	if err != nil {
		t.Fatalf("add todo %q failed: %v", title, err)
	}
	return todo
}

func TestNewProjectEmitsProjectCreated(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType() != EventTypeProjectCreated {
		t.Fatalf("expected ProjectCreated, got %s", events[0].EventType())
	}
	if events[0].AggregateID() != p.ID().UUID() {
		t.Fatalf("aggregate id should be the project id")
	}
}

func TestAddTodoEmitsTodoCreated(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	publisher.Clear()

	todo := addTodo(t, p, publisher, "design homepage")

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType() != EventTypeTodoCreated {
		t.Fatalf("expected TodoCreated, got %s", events[0].EventType())
	}
	if events[0].AggregateID() != todo.ID().UUID() {
		t.Fatalf("TodoCreated aggregate id should be the todo id")
	}
}

func TestAddTodoRejectsDuplicateTitle(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	addTodo(t, p, publisher, "design homepage")

	_, err := p.AddTodo(publisher, mustTitle(t, "design homepage"), mustDescription(t, ""), nil)
	if !errors.Is(err, ErrDuplicateTodoTitle) {
		t.Fatalf("expected ErrDuplicateTodoTitle, got %v", err)
	}
}

func TestAddTodoRejectsUnknownDependency(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)

	_, err := p.AddTodo(publisher, mustTitle(t, "deploy"), mustDescription(t, ""), []TodoID{NewTodoID()})
	if !errors.Is(err, ErrTodoDependencyNotFound) {
		t.Fatalf("expected ErrTodoDependencyNotFound, got %v", err)
	}
	if len(p.Todos()) != 0 {
		t.Fatalf("failed add must not store the todo")
	}
}

func TestUpdateTodoRejectsCycle(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())

	// a -> b would close a cycle with the existing b -> a edge.
	_, err := p.UpdateTodo(a.ID(), nil, nil, []TodoID{b.ID()})
	if !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency, got %v", err)
	}

	// The failed update must leave the graph untouched.
	got, lookupErr := p.Todo(a.ID())
	if lookupErr != nil {
		t.Fatalf("lookup a: %v", lookupErr)
	}
	if !got.Dependencies().IsEmpty() {
		t.Fatalf("a's dependencies changed after a rejected update")
	}
}

func TestLongerCycleIsRejected(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())
	c := addTodo(t, p, publisher, "c", b.ID())

	_, err := p.UpdateTodo(a.ID(), nil, nil, []TodoID{c.ID()})
	if !errors.Is(err, ErrCircularDependency) {
		t.Fatalf("expected ErrCircularDependency for a->c->b->a, got %v", err)
	}
}

func TestDiamondDependencyIsNotACycle(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())
	c := addTodo(t, p, publisher, "c", a.ID())

	// d -> {b, c} plus b -> a and c -> a is a diamond, not a cycle.
	if _, err := p.AddTodo(publisher, mustTitle(t, "d"), mustDescription(t, ""), []TodoID{b.ID(), c.ID()}); err != nil {
		t.Fatalf("diamond graph should be accepted: %v", err)
	}
}

func TestRemoveTodoBlockedByDependents(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())

	err := p.RemoveTodo(a.ID())
	if !errors.Is(err, ErrTodoRemovalNotAllowed) {
		t.Fatalf("expected ErrTodoRemovalNotAllowed, got %v", err)
	}

	var removal *TodoRemovalNotAllowedError
	if !errors.As(err, &removal) {
		t.Fatalf("error should carry dependent ids, got %T", err)
	}
	if len(removal.DependentIDs) != 1 || removal.DependentIDs[0] != b.ID() {
		t.Fatalf("expected dependent %s, got %v", b.ID(), removal.DependentIDs)
	}
	if _, lookupErr := p.Todo(a.ID()); lookupErr != nil {
		t.Fatalf("blocked removal must keep the todo: %v", lookupErr)
	}
}

func TestRemoveTodoSucceedsAfterDependentRemoved(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())

	if err := p.RemoveTodo(b.ID()); err != nil {
		t.Fatalf("removing the dependent should succeed: %v", err)
	}
	if err := p.RemoveTodo(a.ID()); err != nil {
		t.Fatalf("removing a after b should succeed: %v", err)
	}
	if len(p.Todos()) != 0 {
		t.Fatalf("project should be empty")
	}
}

func TestStartTodoGatedByDependencies(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())

	if _, err := p.StartTodo(b.ID()); !errors.Is(err, ErrTodoDependencyNotCompleted) {
		t.Fatalf("start with incomplete dependency should fail, got %v", err)
	}

	if _, err := p.StartTodo(a.ID()); err != nil {
		t.Fatalf("start a: %v", err)
	}

	// In-progress is not enough; the dependency must be completed.
	if _, err := p.StartTodo(b.ID()); !errors.Is(err, ErrTodoDependencyNotCompleted) {
		t.Fatalf("start with in-progress dependency should fail, got %v", err)
	}

	if _, err := p.CompleteTodo(a.ID()); err != nil {
		t.Fatalf("complete a: %v", err)
	}
	if _, err := p.StartTodo(b.ID()); err != nil {
		t.Fatalf("start b after a completed: %v", err)
	}
}

func TestCompleteTodoIgnoresDependencies(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")

	if _, err := p.StartTodo(a.ID()); err != nil {
		t.Fatalf("start a: %v", err)
	}

	// b depends on the in-progress a but was started before the edge
	// existed, so completing it is still legal.
	b := addTodo(t, p, publisher, "b")
	if _, err := p.StartTodo(b.ID()); err != nil {
		t.Fatalf("start b: %v", err)
	}
	if _, err := p.UpdateTodo(b.ID(), nil, nil, []TodoID{a.ID()}); err != nil {
		t.Fatalf("wire b -> a: %v", err)
	}
	if _, err := p.CompleteTodo(b.ID()); err != nil {
		t.Fatalf("complete b: %v", err)
	}
}

func TestUpdateTodoTitleUniquenessExcludesSelf(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	addTodo(t, p, publisher, "b")

	// Re-asserting the current title is fine.
	title := mustTitle(t, "a")
	if _, err := p.UpdateTodo(a.ID(), &title, nil, nil); err != nil {
		t.Fatalf("same-title update should succeed: %v", err)
	}

	clash := mustTitle(t, "b")
	if _, err := p.UpdateTodo(a.ID(), &clash, nil, nil); !errors.Is(err, ErrDuplicateTodoTitle) {
		t.Fatalf("expected ErrDuplicateTodoTitle, got %v", err)
	}
}

func TestUpdateTodoClearsDependencies(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	a := addTodo(t, p, publisher, "a")
	b := addTodo(t, p, publisher, "b", a.ID())

	updated, err := p.UpdateTodo(b.ID(), nil, nil, []TodoID{})
	if err != nil {
		t.Fatalf("clear dependencies: %v", err)
	}
	if !updated.Dependencies().IsEmpty() {
		t.Fatalf("dependencies should be empty after explicit clear")
	}
}

func TestTodosOrderedByCreation(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	first := addTodo(t, p, publisher, "first")
	second := addTodo(t, p, publisher, "second")
	third := addTodo(t, p, publisher, "third")

	todos := p.Todos()
	want := []TodoID{first.ID(), second.ID(), third.ID()}
	for i, todo := range todos {
		if todo.ID() != want[i] {
			t.Fatalf("todo %d out of order", i)
		}
	}
}

func TestTodoLimitEnforced(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	for i := 0; i < MaxTodos; i++ {
		addTodo(t, p, publisher, fmt.Sprintf("todo-%04d", i))
	}

	_, err := p.AddTodo(publisher, mustTitle(t, "one too many"), mustDescription(t, ""), nil)
	if !errors.Is(err, ErrTooManyTodos) {
		t.Fatalf("expected ErrTooManyTodos, got %v", err)
	}
}

func TestDeleteEmitsProjectDeleted(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	publisher.Clear()

	p.Delete(publisher)

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].EventType() != EventTypeProjectDeleted {
		t.Fatalf("expected ProjectDeleted, got %s", events[0].EventType())
	}
	if events[0].AggregateID() != p.ID().UUID() {
		t.Fatalf("aggregate id should be the project id")
	}
}

func TestAddTodoEntityEmitsBothEvents(t *testing.T) {
	t.Parallel()

	p, publisher := newTestProject(t)
	publisher.Clear()

	todo := NewTodo(NewTodoID(), p.ID(), mustTitle(t, "imported"), mustDescription(t, ""), EmptyDependencySet(), newStepClock())
	if err := p.AddTodoEntity(publisher, todo); err != nil {
		t.Fatalf("add entity: %v", err)
	}

	events := publisher.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType() != EventTypeTodoCreated {
		t.Fatalf("first event should be TodoCreated, got %s", events[0].EventType())
	}
	if events[1].EventType() != EventTypeTodoAddedToProject {
		t.Fatalf("second event should be TodoAddedToProject, got %s", events[1].EventType())
	}
	if events[1].AggregateID() != p.ID().UUID() {
		t.Fatalf("TodoAddedToProject aggregate id should be the project id")
	}
}
