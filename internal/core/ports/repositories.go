package ports

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/domain"
)

type TaskFilter struct {
	Status          domain.TaskStatus
	Assignee        string
	IncludeArchived bool
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetAll(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, comment *domain.TaskComment) error
	AddDependency(ctx context.Context, dep *domain.TaskDependency) error
	RemoveDependency(ctx context.Context, taskID, dependsOnID string) error
	// ArchiveDoneBefore marks done tasks last touched before cutoff as
	// archived and returns how many rows changed.
	ArchiveDoneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type AuditRepository interface {
	Record(ctx context.Context, event *domain.AuditEvent) error
	GetRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
	GetByActor(ctx context.Context, actor string, limit int) ([]domain.AuditEvent, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Locker serializes a critical section across backend instances.
type Locker interface {
	// WithLock runs fn while holding the lock identified by key. It returns
	// acquired=false without running fn when another holder owns the lock.
	WithLock(ctx context.Context, key int64, fn func(context.Context) error) (acquired bool, err error)
}
