package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ProjectID identifies a Project aggregate.
type ProjectID uuid.UUID

// NewProjectID generates a fresh random ProjectID.
func NewProjectID() ProjectID {
	return ProjectID(uuid.New())
}

// ParseProjectID parses the canonical string form of a ProjectID.
func ParseProjectID(raw string) (ProjectID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return ProjectID{}, fmt.Errorf("%w: invalid project id %q", ErrInvalidInput, raw)
	}
	return ProjectID(id), nil
}

func (id ProjectID) String() string { return uuid.UUID(id).String() }

// UUID returns the underlying identifier for persistence and event payloads.
func (id ProjectID) UUID() uuid.UUID { return uuid.UUID(id) }

// TodoID identifies a Todo within a Project.
type TodoID uuid.UUID

// NewTodoID generates a fresh random TodoID.
func NewTodoID() TodoID {
	return TodoID(uuid.New())
}

// ParseTodoID parses the canonical string form of a TodoID.
func ParseTodoID(raw string) (TodoID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return TodoID{}, fmt.Errorf("%w: invalid todo id %q", ErrInvalidInput, raw)
	}
	return TodoID(id), nil
}

func (id TodoID) String() string { return uuid.UUID(id).String() }

// UUID returns the underlying identifier for persistence and event payloads.
func (id TodoID) UUID() uuid.UUID { return uuid.UUID(id) }
