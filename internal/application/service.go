package application

import (
	"context"
	"fmt"

	"github.com/planbound/projects-service/internal/domain"
	"github.com/planbound/projects-service/internal/ports"
)

// Service implements the project/todo use cases. Every mutating use case
// runs inside one unit-of-work scope, so a domain error unwinds the whole
// transaction and leaves neither state changes nor outbox rows behind.
type Service struct {
	uow ports.UnitOfWork
}

func NewService(uow ports.UnitOfWork) *Service {
	return &Service{uow: uow}
}

// CreateProject creates a project after checking the name is not already
// taken by another project.
func (s *Service) CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error) {
	name, err := domain.NewProjectName(req.Name)
	if err != nil {
		return ProjectResponse{}, err
	}
	description, err := domain.NewProjectDescription(req.Description)
	if err != nil {
		return ProjectResponse{}, err
	}

	var res ProjectResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		existing, err := scope.Projects().FindAll(ctx, 0)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if p.Name() == name {
				return fmt.Errorf("%w: project name %q already exists", domain.ErrConflict, name)
			}
		}

		project := domain.NewProject(name, description, scope.Events())
		if err := scope.Projects().Save(ctx, project); err != nil {
			return err
		}
		res = toProjectResponse(project)
		return nil
	})
	if err != nil {
		return ProjectResponse{}, err
	}
	return res, nil
}

// ListProjects returns projects newest first; limit <= 0 means no limit.
func (s *Service) ListProjects(ctx context.Context, limit int) ([]ProjectResponse, error) {
	var res []ProjectResponse
	err := s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		projects, err := scope.Projects().FindAll(ctx, limit)
		if err != nil {
			return err
		}
		res = make([]ProjectResponse, 0, len(projects))
		for _, p := range projects {
			res = append(res, toProjectResponse(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) GetProject(ctx context.Context, projectID string) (ProjectResponse, error) {
	id, err := domain.ParseProjectID(projectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	var res ProjectResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, id)
		if err != nil {
			return err
		}
		res = toProjectResponse(project)
		return nil
	})
	if err != nil {
		return ProjectResponse{}, err
	}
	return res, nil
}

func (s *Service) UpdateProject(ctx context.Context, projectID string, req UpdateProjectRequest) (ProjectResponse, error) {
	id, err := domain.ParseProjectID(projectID)
	if err != nil {
		return ProjectResponse{}, err
	}
	var res ProjectResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			name, err := domain.NewProjectName(*req.Name)
			if err != nil {
				return err
			}
			project.UpdateName(name)
		}
		if req.Description != nil {
			description, err := domain.NewProjectDescription(*req.Description)
			if err != nil {
				return err
			}
			project.UpdateDescription(description)
		}
		if err := scope.Projects().Save(ctx, project); err != nil {
			return err
		}
		res = toProjectResponse(project)
		return nil
	})
	if err != nil {
		return ProjectResponse{}, err
	}
	return res, nil
}

// DeleteProject removes a project and its todos, emitting ProjectDeleted
// in the same transaction.
func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	id, err := domain.ParseProjectID(projectID)
	if err != nil {
		return err
	}
	return s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, id)
		if err != nil {
			return err
		}
		project.Delete(scope.Events())
		return scope.Projects().Delete(ctx, id)
	})
}

func (s *Service) AddTodo(ctx context.Context, projectID string, req AddTodoRequest) (TodoResponse, error) {
	id, err := domain.ParseProjectID(projectID)
	if err != nil {
		return TodoResponse{}, err
	}
	title, err := domain.NewTodoTitle(req.Title)
	if err != nil {
		return TodoResponse{}, err
	}
	description, err := domain.NewTodoDescription(req.Description)
	if err != nil {
		return TodoResponse{}, err
	}
	depIDs, err := parseTodoIDs(req.Dependencies)
	if err != nil {
		return TodoResponse{}, err
	}

	var res TodoResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, id)
		if err != nil {
			return err
		}
		todo, err := project.AddTodo(scope.Events(), title, description, depIDs)
		if err != nil {
			return err
		}
		if err := scope.Projects().Save(ctx, project); err != nil {
			return err
		}
		res = toTodoResponse(todo)
		return nil
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return res, nil
}

func (s *Service) GetTodo(ctx context.Context, projectID, todoID string) (TodoResponse, error) {
	pid, tid, err := parseIDs(projectID, todoID)
	if err != nil {
		return TodoResponse{}, err
	}
	var res TodoResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		todo, err := project.Todo(tid)
		if err != nil {
			return err
		}
		res = toTodoResponse(todo)
		return nil
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return res, nil
}

func (s *Service) UpdateTodo(ctx context.Context, projectID, todoID string, req UpdateTodoRequest) (TodoResponse, error) {
	pid, tid, err := parseIDs(projectID, todoID)
	if err != nil {
		return TodoResponse{}, err
	}
	var title *domain.TodoTitle
	if req.Title != nil {
		t, err := domain.NewTodoTitle(*req.Title)
		if err != nil {
			return TodoResponse{}, err
		}
		title = &t
	}
	var description *domain.TodoDescription
	if req.Description != nil {
		d, err := domain.NewTodoDescription(*req.Description)
		if err != nil {
			return TodoResponse{}, err
		}
		description = &d
	}
	var depIDs []domain.TodoID
	if req.Dependencies != nil {
		depIDs, err = parseTodoIDs(req.Dependencies)
		if err != nil {
			return TodoResponse{}, err
		}
		if depIDs == nil {
			depIDs = []domain.TodoID{}
		}
	}

	var res TodoResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		todo, err := project.UpdateTodo(tid, title, description, depIDs)
		if err != nil {
			return err
		}
		if err := scope.Projects().Save(ctx, project); err != nil {
			return err
		}
		res = toTodoResponse(todo)
		return nil
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return res, nil
}

func (s *Service) RemoveTodo(ctx context.Context, projectID, todoID string) error {
	pid, tid, err := parseIDs(projectID, todoID)
	if err != nil {
		return err
	}
	return s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		if err := project.RemoveTodo(tid); err != nil {
			return err
		}
		return scope.Projects().Save(ctx, project)
	})
}

func (s *Service) StartTodo(ctx context.Context, projectID, todoID string) (TodoResponse, error) {
	return s.transitionTodo(ctx, projectID, todoID, (*domain.Project).StartTodo)
}

func (s *Service) CompleteTodo(ctx context.Context, projectID, todoID string) (TodoResponse, error) {
	return s.transitionTodo(ctx, projectID, todoID, (*domain.Project).CompleteTodo)
}

func (s *Service) transitionTodo(
	ctx context.Context,
	projectID, todoID string,
	transition func(*domain.Project, domain.TodoID) (*domain.Todo, error),
) (TodoResponse, error) {
	pid, tid, err := parseIDs(projectID, todoID)
	if err != nil {
		return TodoResponse{}, err
	}
	var res TodoResponse
	err = s.uow.Do(ctx, func(ctx context.Context, scope ports.UnitOfWorkScope) error {
		project, err := scope.Projects().FindByID(ctx, pid)
		if err != nil {
			return err
		}
		todo, err := transition(project, tid)
		if err != nil {
			return err
		}
		if err := scope.Projects().Save(ctx, project); err != nil {
			return err
		}
		res = toTodoResponse(todo)
		return nil
	})
	if err != nil {
		return TodoResponse{}, err
	}
	return res, nil
}

func parseIDs(projectID, todoID string) (domain.ProjectID, domain.TodoID, error) {
	pid, err := domain.ParseProjectID(projectID)
	if err != nil {
		return domain.ProjectID{}, domain.TodoID{}, err
	}
	tid, err := domain.ParseTodoID(todoID)
	if err != nil {
		return domain.ProjectID{}, domain.TodoID{}, err
	}
	return pid, tid, nil
}

func parseTodoIDs(raw []string) ([]domain.TodoID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]domain.TodoID, 0, len(raw))
	for _, r := range raw {
		id, err := domain.ParseTodoID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
