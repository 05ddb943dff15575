package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/planbound/projects-service/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepository struct {
	db *gorm.DB
}

func (r *projectRepository) FindByID(ctx context.Context, id domain.ProjectID) (*domain.Project, error) {
	var row projectModel
	if err := r.db.WithContext(ctx).Where("id = ?", id.UUID()).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, id)
		}
		return nil, err
	}
	var todoRows []todoModel
	if err := r.db.WithContext(ctx).Where("project_id = ?", id.UUID()).Find(&todoRows).Error; err != nil {
		return nil, err
	}
	return toDomainProject(row, todoRows)
}

func (r *projectRepository) FindAll(ctx context.Context, limit int) ([]*domain.Project, error) {
	query := r.db.WithContext(ctx).Model(&projectModel{}).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []projectModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	projects := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		var todoRows []todoModel
		if err := r.db.WithContext(ctx).Where("project_id = ?", row.ID).Find(&todoRows).Error; err != nil {
			return nil, err
		}
		project, err := toDomainProject(row, todoRows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, nil
}

// Save upserts the project row and every contained todo, then deletes
// todo rows that no longer exist on the in-memory aggregate.
func (r *projectRepository) Save(ctx context.Context, project *domain.Project) error {
	row := fromDomainProject(project)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "updated_at"}),
		}).
		Create(&row).Error; err != nil {
		return err
	}

	todos := project.Todos()
	keep := make([]any, 0, len(todos))
	for _, todo := range todos {
		todoRow, err := fromDomainTodo(todo)
		if err != nil {
			return err
		}
		if err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "description", "status", "dependencies", "updated_at", "completed_at",
				}),
			}).
			Create(&todoRow).Error; err != nil {
			return err
		}
		keep = append(keep, todoRow.ID)
	}

	stale := r.db.WithContext(ctx).Where("project_id = ?", project.ID().UUID())
	if len(keep) > 0 {
		stale = stale.Where("id NOT IN ?", keep)
	}
	return stale.Delete(&todoModel{}).Error
}

func (r *projectRepository) Delete(ctx context.Context, id domain.ProjectID) error {
	if err := r.db.WithContext(ctx).Where("project_id = ?", id.UUID()).Delete(&todoModel{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id.UUID()).Delete(&projectModel{}).Error
}
