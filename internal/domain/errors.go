package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks malformed identifiers or value objects.
	// Adapters map it uniformly to a 400 response.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict signals a cross-aggregate uniqueness violation,
	// currently only duplicate project names.
	ErrConflict = errors.New("conflict")

	ErrProjectNotFound = errors.New("project not found")
	ErrTodoNotFound    = errors.New("todo not found")

	// ErrDuplicateTodoTitle rejects a second todo with the same title
	// inside one project.
	ErrDuplicateTodoTitle = errors.New("duplicate todo title")
	// ErrTooManyTodos enforces the per-project todo cap.
	ErrTooManyTodos = errors.New("too many todos in project")
	// ErrTooManyDependencies enforces the per-todo dependency cap.
	ErrTooManyDependencies = errors.New("too many dependencies")
	// ErrSelfDependency rejects a todo depending on itself.
	ErrSelfDependency = errors.New("todo cannot depend on itself")
	// ErrCircularDependency rejects any edge set that would close a cycle
	// in the project's dependency graph.
	ErrCircularDependency = errors.New("circular dependency")
	// ErrTodoDependencyNotFound rejects dependencies naming todos outside
	// the project.
	ErrTodoDependencyNotFound = errors.New("dependency todo not found")

	ErrTodoAlreadyStarted   = errors.New("todo already started")
	ErrTodoAlreadyCompleted = errors.New("todo already completed")
	ErrTodoNotStarted       = errors.New("todo not started")
	// ErrTodoDependencyNotCompleted gates starting a todo until every
	// dependency is completed.
	ErrTodoDependencyNotCompleted = errors.New("dependencies not completed")

	// ErrTodoRemovalNotAllowed blocks removal of a todo other todos still
	// depend on. Removal is blocked rather than cascaded so dependents
	// never silently lose a precondition.
	ErrTodoRemovalNotAllowed = errors.New("todo removal not allowed")
	// ErrProjectDeletionNotAllowed is reserved for deletion preconditions.
	ErrProjectDeletionNotAllowed = errors.New("project deletion not allowed")
)

// TodoRemovalNotAllowedError carries the ids of the todos that still
// depend on the one being removed, for diagnostics in the response.
type TodoRemovalNotAllowedError struct {
	TodoID       TodoID
	DependentIDs []TodoID
}

func (e *TodoRemovalNotAllowedError) Error() string {
	deps := make([]string, 0, len(e.DependentIDs))
	for _, id := range e.DependentIDs {
		deps = append(deps, id.String())
	}
	return fmt.Sprintf("cannot remove todo %s because it is a dependency of: %s",
		e.TodoID, strings.Join(deps, ", "))
}

func (e *TodoRemovalNotAllowedError) Unwrap() error { return ErrTodoRemovalNotAllowed }
