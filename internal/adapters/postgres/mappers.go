package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/planbound/projects-service/internal/domain"
)

func toDomainProject(row projectModel, todoRows []todoModel) (*domain.Project, error) {
	todos := make([]*domain.Todo, 0, len(todoRows))
	for _, t := range todoRows {
		todo, err := toDomainTodo(t)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	name, err := domain.NewProjectName(row.Name)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", row.ID, err)
	}
	description, err := domain.NewProjectDescription(derefString(row.Description))
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", row.ID, err)
	}
	return domain.RestoreProject(
		domain.ProjectID(row.ID),
		name,
		description,
		todos,
		row.CreatedAt,
		row.UpdatedAt,
		domain.SystemClock,
	), nil
}

func toDomainTodo(row todoModel) (*domain.Todo, error) {
	title, err := domain.NewTodoTitle(row.Title)
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", row.ID, err)
	}
	description, err := domain.NewTodoDescription(derefString(row.Description))
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", row.ID, err)
	}
	status, err := domain.ParseTodoStatus(row.Status)
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", row.ID, err)
	}
	deps, err := parseDependencies(row.Dependencies, domain.TodoID(row.ID))
	if err != nil {
		return nil, fmt.Errorf("todo %s: %w", row.ID, err)
	}
	return domain.RestoreTodo(
		domain.TodoID(row.ID),
		domain.ProjectID(row.ProjectID),
		title,
		description,
		status,
		deps,
		row.CreatedAt,
		row.UpdatedAt,
		row.CompletedAt,
		domain.SystemClock,
	), nil
}

func fromDomainProject(p *domain.Project) projectModel {
	return projectModel{
		ID:          p.ID().UUID(),
		Name:        p.Name().String(),
		Description: nilIfEmpty(p.Description().String()),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func fromDomainTodo(t *domain.Todo) (todoModel, error) {
	deps, err := marshalDependencies(t.Dependencies())
	if err != nil {
		return todoModel{}, err
	}
	return todoModel{
		ID:           t.ID().UUID(),
		ProjectID:    t.ProjectID().UUID(),
		Title:        t.Title().String(),
		Description:  nilIfEmpty(t.Description().String()),
		Status:       string(t.Status()),
		Dependencies: deps,
		CreatedAt:    t.CreatedAt(),
		UpdatedAt:    t.UpdatedAt(),
		CompletedAt:  t.CompletedAt(),
	}, nil
}

func parseDependencies(raw string, self domain.TodoID) (domain.DependencySet, error) {
	if raw == "" {
		return domain.EmptyDependencySet(), nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return domain.DependencySet{}, fmt.Errorf("parse dependencies: %w", err)
	}
	ids := make([]domain.TodoID, 0, len(values))
	for _, v := range values {
		id, err := domain.ParseTodoID(v)
		if err != nil {
			return domain.DependencySet{}, err
		}
		ids = append(ids, id)
	}
	return domain.NewDependencySet(ids, self)
}

func marshalDependencies(deps domain.DependencySet) (string, error) {
	values := make([]string, 0, deps.Len())
	for _, id := range deps.IDs() {
		values = append(values, id.String())
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal dependencies: %w", err)
	}
	return string(raw), nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
