package application

import (
	"time"

	"github.com/planbound/projects-service/internal/domain"
)

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddTodoRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// UpdateTodoRequest carries optional edits; nil fields are left untouched.
// A non-nil empty Dependencies slice clears the dependency set.
type UpdateTodoRequest struct {
	Title        *string  `json:"title,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

type TodoResponse struct {
	ID           string     `json:"id"`
	ProjectID    string     `json:"project_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	Dependencies []string   `json:"dependencies"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type ProjectResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Todos       []TodoResponse `json:"todos"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toTodoResponse(t *domain.Todo) TodoResponse {
	depIDs := t.Dependencies().IDs()
	deps := make([]string, 0, len(depIDs))
	for _, id := range depIDs {
		deps = append(deps, id.String())
	}
	return TodoResponse{
		ID:           t.ID().String(),
		ProjectID:    t.ProjectID().String(),
		Title:        t.Title().String(),
		Description:  t.Description().String(),
		Status:       string(t.Status()),
		Dependencies: deps,
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
		CompletedAt:  t.CompletedAt(),
	}
}

func toProjectResponse(p *domain.Project) ProjectResponse {
	todos := make([]TodoResponse, 0, len(p.Todos()))
	for _, t := range p.Todos() {
		todos = append(todos, toTodoResponse(t))
	}
	return ProjectResponse{
		ID:          p.ID().String(),
		Name:        p.Name().String(),
		Description: p.Description().String(),
		Todos:       todos,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}
