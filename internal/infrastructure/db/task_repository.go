package db

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type taskRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepository(db *gorm.DB, log *logger.Logger) ports.TaskRepository {
	return &taskRepository{db: db, log: log}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		r.log.Errorw("task_repo_create_failed", "title", task.Title, "error", err)
		return err
	}
	r.log.Infow("task_repo_create_ok", "id", task.ID)
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Preload("Comments").
		Preload("Dependencies").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) GetAll(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, error) {
	query := r.db.WithContext(ctx).Model(&domain.Task{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Assignee != "" {
		query = query.Where("assignee = ?", filter.Assignee)
	}
	if !filter.IncludeArchived {
		query = query.Where("archived = false")
	}

	var tasks []domain.Task
	if err := query.Order("updated_at desc").Find(&tasks).Error; err != nil {
		r.log.Errorw("task_repo_list_failed", "error", err)
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		r.log.Errorw("task_repo_update_failed", "id", task.ID, "error", err)
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error; err != nil {
		r.log.Errorw("task_repo_delete_failed", "id", id, "error", err)
		return err
	}
	r.log.Infow("task_repo_delete_ok", "id", id)
	return nil
}

func (r *taskRepository) AddComment(ctx context.Context, comment *domain.TaskComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.Errorw("task_repo_comment_failed", "task_id", comment.TaskID, "error", err)
		return err
	}
	return nil
}

func (r *taskRepository) AddDependency(ctx context.Context, dep *domain.TaskDependency) error {
	if err := r.db.WithContext(ctx).Create(dep).Error; err != nil {
		r.log.Errorw("task_repo_dependency_failed", "task_id", dep.TaskID, "depends_on", dep.DependsOnID, "error", err)
		return err
	}
	return nil
}

func (r *taskRepository) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	return r.db.WithContext(ctx).
		Where("task_id = ? AND depends_on_id = ?", taskID, dependsOnID).
		Delete(&domain.TaskDependency{}).Error
}

func (r *taskRepository) ArchiveDoneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("status = ? AND archived = false AND updated_at < ?", domain.TaskStatusDone, cutoff).
		Update("archived", true)
	if result.Error != nil {
		r.log.Errorw("task_repo_archive_failed", "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
