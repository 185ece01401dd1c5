package ports

import (
	"context"

	"github.com/taskboard/backend/internal/domain"
)

type BoardService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	GetTaskByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	MoveTask(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)
	AddComment(ctx context.Context, taskID, author, body string) (*domain.TaskComment, error)
	AddDependency(ctx context.Context, taskID, dependsOnID string) error
	RemoveDependency(ctx context.Context, taskID, dependsOnID string) error
}

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	Assignee    string
	Labels      domain.JSONB
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.TaskPriority
	Assignee    *string
	Labels      domain.JSONB
}

type SubagentService interface {
	GetStatus(ctx context.Context) (*domain.SubagentStatusReport, error)
}

type WorkspaceService interface {
	ListFiles(ctx context.Context, path string, recursive bool) ([]domain.WorkspaceFile, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	CreateFile(ctx context.Context, principal, path, content string) error
	UpdateFile(ctx context.Context, principal, path, content string) error
}

type GatewayService interface {
	ListSessions(ctx context.Context) ([]domain.GatewaySession, error)
	ListCronJobs(ctx context.Context) ([]domain.GatewayCronJob, error)
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(token string) (string, error)
}
