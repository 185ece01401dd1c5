package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type BoardServiceConfig struct {
	TaskRepo ports.TaskRepository
	Logger   *logger.Logger
}

type boardService struct {
	repo   ports.TaskRepository
	logger *logger.Logger
}

func NewBoardService(cfg BoardServiceConfig) ports.BoardService {
	return &boardService{repo: cfg.TaskRepo, logger: cfg.Logger}
}

func (s *boardService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskInvalidInput
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	}

	task := &domain.Task{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.TaskStatusBacklog,
		Priority:    priority,
		Assignee:    input.Assignee,
		Labels:      input.Labels,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Infow("task_created", "id", task.ID, "title", task.Title)
	return task, nil
}

func (s *boardService) GetTasks(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, error) {
	return s.repo.GetAll(ctx, filter)
}

func (s *boardService) GetTaskByID(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (s *boardService) UpdateTask(ctx context.Context, id string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTaskInvalidInput
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.Assignee != nil {
		task.Assignee = *input.Assignee
	}
	if input.Labels != nil {
		task.Labels = input.Labels
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *boardService) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.GetTaskByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MoveTask transitions a task between board columns. Moving into review or
// done requires every dependency to already be done.
func (s *boardService) MoveTask(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrTaskInvalidInput, status)
	}

	task, err := s.GetTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == domain.TaskStatusReview || status == domain.TaskStatusDone {
		for _, dep := range task.Dependencies {
			blocker, err := s.GetTaskByID(ctx, dep.DependsOnID)
			if err != nil {
				if errors.Is(err, ErrTaskNotFound) {
					continue
				}
				return nil, err
			}
			if blocker.Status != domain.TaskStatusDone {
				s.logger.Warnw("task_move_blocked", "id", id, "blocked_by", blocker.ID)
				return nil, ErrTaskBlocked
			}
		}
	}

	task.Status = status
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.logger.Infow("task_moved", "id", id, "status", status)
	return task, nil
}

func (s *boardService) AddComment(ctx context.Context, taskID, author, body string) (*domain.TaskComment, error) {
	if body == "" || author == "" {
		return nil, ErrTaskInvalidInput
	}
	if _, err := s.GetTaskByID(ctx, taskID); err != nil {
		return nil, err
	}

	comment := &domain.TaskComment{TaskID: taskID, Author: author, Body: body}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *boardService) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	if taskID == dependsOnID {
		return ErrDependencySelf
	}
	if _, err := s.GetTaskByID(ctx, taskID); err != nil {
		return err
	}
	if _, err := s.GetTaskByID(ctx, dependsOnID); err != nil {
		if errors.Is(err, ErrTaskNotFound) {
			return ErrDependencyMissing
		}
		return err
	}
	return s.repo.AddDependency(ctx, &domain.TaskDependency{TaskID: taskID, DependsOnID: dependsOnID})
}

func (s *boardService) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	return s.repo.RemoveDependency(ctx, taskID, dependsOnID)
}
