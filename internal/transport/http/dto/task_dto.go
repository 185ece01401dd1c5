package dto

import (
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
)

type CreateTaskRequest struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Assignee    string       `json:"assignee,omitempty"`
	Labels      domain.JSONB `json:"labels,omitempty"`
}

func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "title is required")
	}
	if r.Priority != "" {
		switch domain.TaskPriority(r.Priority) {
		case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh:
		default:
			errors = append(errors, "priority must be one of low, medium, high")
		}
	}

	return errors
}

func (r *CreateTaskRequest) ToInput() ports.CreateTaskInput {
	return ports.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    domain.TaskPriority(r.Priority),
		Assignee:    r.Assignee,
		Labels:      r.Labels,
	}
}

type UpdateTaskRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	Priority    *string      `json:"priority,omitempty"`
	Assignee    *string      `json:"assignee,omitempty"`
	Labels      domain.JSONB `json:"labels,omitempty"`
}

func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "title cannot be empty")
	}
	if r.Priority != nil {
		switch domain.TaskPriority(*r.Priority) {
		case domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh:
		default:
			errors = append(errors, "priority must be one of low, medium, high")
		}
	}

	return errors
}

func (r *UpdateTaskRequest) ToInput() ports.UpdateTaskInput {
	input := ports.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Assignee:    r.Assignee,
		Labels:      r.Labels,
	}
	if r.Priority != nil {
		p := domain.TaskPriority(*r.Priority)
		input.Priority = &p
	}
	return input
}

type MoveTaskRequest struct {
	Status string `json:"status"`
}

func (r *MoveTaskRequest) Validate() []string {
	if r.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

type CommentRequest struct {
	Body string `json:"body"`
}

func (r *CommentRequest) Validate() []string {
	if r.Body == "" {
		return []string{"body is required"}
	}
	return nil
}

type DependencyRequest struct {
	DependsOnID string `json:"depends_on_id"`
}

func (r *DependencyRequest) Validate() []string {
	if r.DependsOnID == "" {
		return []string{"depends_on_id is required"}
	}
	return nil
}
