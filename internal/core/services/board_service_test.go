package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

func newBoardService(repo ports.TaskRepository) ports.BoardService {
	return NewBoardService(BoardServiceConfig{TaskRepo: repo, Logger: logger.NewNop()})
}

func TestCreateTaskDefaults(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newBoardService(repo)

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "write docs"})

	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, domain.TaskStatusBacklog, task.Status)
	assert.Equal(t, domain.TaskPriorityMedium, task.Priority)
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc := newBoardService(newFakeTaskRepo())

	_, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{})

	assert.ErrorIs(t, err, ErrTaskInvalidInput)
}

func TestGetTaskByIDNotFound(t *testing.T) {
	svc := newBoardService(newFakeTaskRepo())

	_, err := svc.GetTaskByID(context.Background(), "nope")

	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMoveTaskBlockedByUnfinishedDependency(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newBoardService(repo)

	blocker, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "schema migration"})
	require.NoError(t, err)
	task, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "api endpoint"})
	require.NoError(t, err)
	require.NoError(t, svc.AddDependency(context.Background(), task.ID, blocker.ID))

	_, err = svc.MoveTask(context.Background(), task.ID, domain.TaskStatusDone)
	assert.ErrorIs(t, err, ErrTaskBlocked)

	// Moving within the early columns is never gated on dependencies.
	moved, err := svc.MoveTask(context.Background(), task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, moved.Status)

	_, err = svc.MoveTask(context.Background(), blocker.ID, domain.TaskStatusDone)
	require.NoError(t, err)

	moved, err = svc.MoveTask(context.Background(), task.ID, domain.TaskStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, moved.Status)
}

func TestMoveTaskRejectsUnknownStatus(t *testing.T) {
	svc := newBoardService(newFakeTaskRepo())

	_, err := svc.MoveTask(context.Background(), "any", domain.TaskStatus("parked"))

	assert.ErrorIs(t, err, ErrTaskInvalidInput)
}

func TestAddDependencyValidation(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newBoardService(repo)

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddDependency(context.Background(), task.ID, task.ID), ErrDependencySelf)
	assert.ErrorIs(t, svc.AddDependency(context.Background(), task.ID, "ghost"), ErrDependencyMissing)
}

func TestAddCommentRequiresBody(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := newBoardService(repo)

	task, err := svc.CreateTask(context.Background(), ports.CreateTaskInput{Title: "a"})
	require.NoError(t, err)

	_, err = svc.AddComment(context.Background(), task.ID, "alice", "")
	assert.ErrorIs(t, err, ErrTaskInvalidInput)

	comment, err := svc.AddComment(context.Background(), task.ID, "alice", "looks good")
	require.NoError(t, err)
	assert.Equal(t, task.ID, comment.TaskID)
}
