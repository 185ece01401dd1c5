package services

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/gorm"
)

func errRecordNotFound() error { return gorm.ErrRecordNotFound }

type fakeCall struct {
	service ports.RemoteService
	method  string
	path    string
	body    interface{}
}

// fakeRuntimeCaller scripts upstream behavior per call and records every
// invocation so tests can assert on call counts.
type fakeRuntimeCaller struct {
	configured map[ports.RemoteService]bool
	calls      []fakeCall
	handler    func(call fakeCall) (*ports.RuntimeResponse, error)
}

func newFakeRuntimeCaller(handler func(call fakeCall) (*ports.RuntimeResponse, error)) *fakeRuntimeCaller {
	return &fakeRuntimeCaller{
		configured: map[ports.RemoteService]bool{
			ports.RemoteWorkspace: true,
			ports.RemoteGateway:   true,
		},
		handler: handler,
	}
}

func (f *fakeRuntimeCaller) IsConfigured(service ports.RemoteService) bool {
	return f.configured[service]
}

func (f *fakeRuntimeCaller) Call(ctx context.Context, service ports.RemoteService, method, path string, body interface{}) (*ports.RuntimeResponse, error) {
	call := fakeCall{service: service, method: method, path: path, body: body}
	f.calls = append(f.calls, call)
	return f.handler(call)
}

type fakeAuditRepo struct {
	events []domain.AuditEvent
}

func (f *fakeAuditRepo) Record(ctx context.Context, event *domain.AuditEvent) error {
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeAuditRepo) GetRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	return f.events, nil
}

func (f *fakeAuditRepo) GetByActor(ctx context.Context, actor string, limit int) ([]domain.AuditEvent, error) {
	var out []domain.AuditEvent
	for _, e := range f.events {
		if e.Actor == actor {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, errRecordNotFound()
	}
	return user, nil
}

type fakeLocker struct {
	held     bool
	acquired int
}

func (f *fakeLocker) WithLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	if f.held {
		return false, nil
	}
	f.acquired++
	return true, fn(ctx)
}

type fakeTaskRepo struct {
	tasks        map[string]*domain.Task
	archivedRows int64
	archiveCalls int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (f *fakeTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, errRecordNotFound()
	}
	copy := *task
	return &copy, nil
}

func (f *fakeTaskRepo) GetAll(ctx context.Context, filter ports.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, t := range f.tasks {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	f.tasks[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, id string) error {
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) AddComment(ctx context.Context, comment *domain.TaskComment) error {
	return nil
}

func (f *fakeTaskRepo) AddDependency(ctx context.Context, dep *domain.TaskDependency) error {
	task := f.tasks[dep.TaskID]
	task.Dependencies = append(task.Dependencies, *dep)
	return nil
}

func (f *fakeTaskRepo) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	return nil
}

func (f *fakeTaskRepo) ArchiveDoneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.archiveCalls++
	return f.archivedRows, nil
}
