package domain

import "fmt"

const (
	maxNameLength        = 100
	maxDescriptionLength = 1000
)

// ProjectName is a validated, non-empty project name.
type ProjectName string

func NewProjectName(raw string) (ProjectName, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if len(raw) > maxNameLength {
		return "", fmt.Errorf("%w: project name must be %d characters or less", ErrInvalidInput, maxNameLength)
	}
	return ProjectName(raw), nil
}

func (n ProjectName) String() string { return string(n) }

// ProjectDescription is an optional free-form description; empty means unset.
type ProjectDescription string

func NewProjectDescription(raw string) (ProjectDescription, error) {
	if len(raw) > maxDescriptionLength {
		return "", fmt.Errorf("%w: project description must be %d characters or less", ErrInvalidInput, maxDescriptionLength)
	}
	return ProjectDescription(raw), nil
}

func (d ProjectDescription) String() string { return string(d) }

// TodoTitle is a validated, non-empty todo title. Uniqueness inside a
// project is enforced by the Project aggregate, not here.
type TodoTitle string

func NewTodoTitle(raw string) (TodoTitle, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: todo title is required", ErrInvalidInput)
	}
	if len(raw) > maxNameLength {
		return "", fmt.Errorf("%w: todo title must be %d characters or less", ErrInvalidInput, maxNameLength)
	}
	return TodoTitle(raw), nil
}

func (t TodoTitle) String() string { return string(t) }

// TodoDescription is an optional free-form description; empty means unset.
type TodoDescription string

func NewTodoDescription(raw string) (TodoDescription, error) {
	if len(raw) > maxDescriptionLength {
		return "", fmt.Errorf("%w: todo description must be %d characters or less", ErrInvalidInput, maxDescriptionLength)
	}
	return TodoDescription(raw), nil
}

func (d TodoDescription) String() string { return string(d) }
