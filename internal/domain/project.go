package domain

import (
	"fmt"
	"sort"
	"time"
)

// MaxTodos caps how many todos one project may own.
const MaxTodos = 1000

// Project is the aggregate root owning all of its todos. Every cross-todo
// mutation (dependency wiring included) goes through its methods, because
// only the aggregate sees every dependency edge at once; that is what
// makes the acyclicity and existence checks sound. All operations are
// atomic: validation happens before any state is touched.
type Project struct {
	id          ProjectID
	name        ProjectName
	description ProjectDescription
	todos       map[TodoID]*Todo
	createdAt   time.Time
	updatedAt   time.Time
	clock       Clock
}

// NewProject creates a project and emits ProjectCreated on publisher.
func NewProject(name ProjectName, description ProjectDescription, publisher *EventPublisher) *Project {
	return NewProjectWithClock(name, description, publisher, SystemClock)
}

// NewProjectWithClock is NewProject with an injected clock.
func NewProjectWithClock(name ProjectName, description ProjectDescription, publisher *EventPublisher, clock Clock) *Project {
	now := clock.Now()
	p := &Project{
		id:          NewProjectID(),
		name:        name,
		description: description,
		todos:       make(map[TodoID]*Todo),
		createdAt:   now,
		updatedAt:   now,
		clock:       clock,
	}
	publisher.Publish(NewProjectCreated(p.id, p.name, p.description, now))
	return p
}

// RestoreProject rehydrates a project from storage.
func RestoreProject(
	id ProjectID,
	name ProjectName,
	description ProjectDescription,
	todos []*Todo,
	createdAt, updatedAt time.Time,
	clock Clock,
) *Project {
	if clock == nil {
		clock = SystemClock
	}
	m := make(map[TodoID]*Todo, len(todos))
	for _, t := range todos {
		m[t.ID()] = t
	}
	return &Project{
		id:          id,
		name:        name,
		description: description,
		todos:       m,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		clock:       clock,
	}
}

func (p *Project) ID() ProjectID                   { return p.id }
func (p *Project) Name() ProjectName               { return p.name }
func (p *Project) Description() ProjectDescription { return p.description }
func (p *Project) CreatedAt() time.Time            { return p.createdAt }
func (p *Project) UpdatedAt() time.Time            { return p.updatedAt }

// Todos returns the project's todos ordered by creation time.
func (p *Project) Todos() []*Todo {
	todos := make([]*Todo, 0, len(p.todos))
	for _, t := range p.todos {
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].CreatedAt().Equal(todos[j].CreatedAt()) {
			return todos[i].ID().String() < todos[j].ID().String()
		}
		return todos[i].CreatedAt().Before(todos[j].CreatedAt())
	})
	return todos
}

// Todo looks up one todo by id.
func (p *Project) Todo(id TodoID) (*Todo, error) {
	t, ok := p.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	return t, nil
}

func (p *Project) UpdateName(name ProjectName) {
	p.name = name
	p.updatedAt = p.clock.Now()
}

func (p *Project) UpdateDescription(description ProjectDescription) {
	p.description = description
	p.updatedAt = p.clock.Now()
}

// AddTodo creates a new todo inside the project. It checks the todo cap,
// title uniqueness, dependency existence and then acyclicity, in that
// order; nothing is stored unless every check passes. Emits TodoCreated.
func (p *Project) AddTodo(publisher *EventPublisher, title TodoTitle, description TodoDescription, dependencyIDs []TodoID) (*Todo, error) {
	if err := p.validateTodoLimit(); err != nil {
		return nil, err
	}
	if err := p.validateTitleUnique(title, TodoID{}); err != nil {
		return nil, err
	}
	id := NewTodoID()
	deps := EmptyDependencySet()
	if len(dependencyIDs) > 0 {
		if err := p.validateDependenciesExist(dependencyIDs); err != nil {
			return nil, err
		}
		var err error
		deps, err = NewDependencySet(dependencyIDs, id)
		if err != nil {
			return nil, err
		}
		if err := p.validateNoCycle(id, dependencyIDs); err != nil {
			return nil, err
		}
	}

	todo := NewTodo(id, p.id, title, description, deps, p.clock)
	p.todos[todo.ID()] = todo
	p.updatedAt = p.clock.Now()
	publisher.Publish(NewTodoCreated(todo.ID(), p.id, todo.Title(), todo.Description(), p.updatedAt))
	return todo, nil
}

// AddTodoEntity adds a pre-built todo, running the same invariant checks
// as AddTodo. Emits TodoCreated and TodoAddedToProject.
func (p *Project) AddTodoEntity(publisher *EventPublisher, todo *Todo) error {
	if err := p.validateTodoLimit(); err != nil {
		return err
	}
	if err := p.validateTitleUnique(todo.Title(), todo.ID()); err != nil {
		return err
	}
	if _, exists := p.todos[todo.ID()]; exists {
		return fmt.Errorf("%w: todo %s already in project", ErrConflict, todo.ID())
	}
	depIDs := todo.Dependencies().IDs()
	if len(depIDs) > 0 {
		if err := p.validateDependenciesExist(depIDs); err != nil {
			return err
		}
		if err := p.validateNoCycle(todo.ID(), depIDs); err != nil {
			return err
		}
	}

	p.todos[todo.ID()] = todo
	p.updatedAt = p.clock.Now()
	publisher.Publish(NewTodoCreated(todo.ID(), p.id, todo.Title(), todo.Description(), p.updatedAt))
	publisher.Publish(NewTodoAddedToProject(p.id, todo.ID(), todo.Title(), p.updatedAt))
	return nil
}

// RemoveTodo deletes a todo unless another todo still depends on it.
func (p *Project) RemoveTodo(id TodoID) error {
	if _, ok := p.todos[id]; !ok {
		return fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	var dependents []TodoID
	for _, other := range p.Todos() {
		if other.ID() != id && other.Dependencies().Contains(id) {
			dependents = append(dependents, other.ID())
		}
	}
	if len(dependents) > 0 {
		return &TodoRemovalNotAllowedError{TodoID: id, DependentIDs: dependents}
	}
	delete(p.todos, id)
	p.updatedAt = p.clock.Now()
	return nil
}

// UpdateTodo edits title, description and/or dependencies of one todo.
// Nil arguments leave the corresponding field unchanged; dependency
// updates re-run the existence and cycle checks with the edited todo as
// the origin node. No partial update survives a failed check.
func (p *Project) UpdateTodo(id TodoID, title *TodoTitle, description *TodoDescription, dependencyIDs []TodoID) (*Todo, error) {
	todo, ok := p.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}

	if title != nil {
		if err := p.validateTitleUnique(*title, id); err != nil {
			return nil, err
		}
	}
	var newDeps DependencySet
	if dependencyIDs != nil {
		if err := p.validateDependenciesExist(dependencyIDs); err != nil {
			return nil, err
		}
		var err error
		newDeps, err = NewDependencySet(dependencyIDs, id)
		if err != nil {
			return nil, err
		}
		if err := p.validateNoCycle(id, dependencyIDs); err != nil {
			return nil, err
		}
	}

	if title != nil {
		todo.updateTitle(*title)
	}
	if description != nil {
		todo.updateDescription(*description)
	}
	if dependencyIDs != nil {
		todo.setDependencies(newDeps)
	}
	p.updatedAt = p.clock.Now()
	return todo, nil
}

// StartTodo starts a todo once every dependency exists and is completed.
// Dependencies gate starting only, never completing.
func (p *Project) StartTodo(id TodoID) (*Todo, error) {
	todo, ok := p.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	if !p.canStart(todo) {
		return nil, fmt.Errorf("%w: todo %s", ErrTodoDependencyNotCompleted, id)
	}
	if err := todo.Start(); err != nil {
		return nil, err
	}
	p.updatedAt = p.clock.Now()
	return todo, nil
}

// CompleteTodo completes a todo; the state machine inside Todo rejects
// illegal transitions.
func (p *Project) CompleteTodo(id TodoID) (*Todo, error) {
	todo, ok := p.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTodoNotFound, id)
	}
	if err := todo.Complete(); err != nil {
		return nil, err
	}
	p.updatedAt = p.clock.Now()
	return todo, nil
}

// Delete emits ProjectDeleted. The caller removes the aggregate from
// storage in the same unit of work.
func (p *Project) Delete(publisher *EventPublisher) {
	publisher.Publish(NewProjectDeleted(p.id, p.name, p.description, p.clock.Now()))
}

// validateNoCycle runs a DFS from each candidate dependency following the
// existing edges of every visited todo (the candidate edges stand in for
// the origin's own). Reaching the origin means the candidate edge set
// would close a cycle. The visited set bounds the walk to O(V+E).
func (p *Project) validateNoCycle(origin TodoID, candidates []TodoID) error {
	visited := make(map[TodoID]bool)

	var walk func(current TodoID) bool
	walk = func(current TodoID) bool {
		if current == origin {
			return true
		}
		if visited[current] {
			return false
		}
		visited[current] = true

		todo, ok := p.todos[current]
		if !ok {
			return false
		}
		for _, dep := range todo.Dependencies().IDs() {
			if walk(dep) {
				return true
			}
		}
		return false
	}

	for _, dep := range candidates {
		if walk(dep) {
			return fmt.Errorf("%w: dependency %s would create a cycle", ErrCircularDependency, dep)
		}
	}
	return nil
}

func (p *Project) canStart(todo *Todo) bool {
	if todo.Dependencies().IsEmpty() {
		return true
	}
	for _, depID := range todo.Dependencies().IDs() {
		dep, ok := p.todos[depID]
		if !ok || !dep.IsCompleted() {
			return false
		}
	}
	return true
}

func (p *Project) validateDependenciesExist(ids []TodoID) error {
	for _, id := range ids {
		if _, ok := p.todos[id]; !ok {
			return fmt.Errorf("%w: %s", ErrTodoDependencyNotFound, id)
		}
	}
	return nil
}

func (p *Project) validateTodoLimit() error {
	if len(p.todos) >= MaxTodos {
		return fmt.Errorf("%w: limit is %d", ErrTooManyTodos, MaxTodos)
	}
	return nil
}

// validateTitleUnique checks title against every todo except exclude;
// pass the zero TodoID to check against all.
func (p *Project) validateTitleUnique(title TodoTitle, exclude TodoID) error {
	for id, todo := range p.todos {
		if id != exclude && todo.Title() == title {
			return fmt.Errorf("%w: %q", ErrDuplicateTodoTitle, title)
		}
	}
	return nil
}
