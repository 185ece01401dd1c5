package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

func TestArchiveRunOnceArchivesUnderLock(t *testing.T) {
	repo := newFakeTaskRepo()
	repo.archivedRows = 7
	locker := &fakeLocker{}
	svc := NewArchiveService(repo, locker, logger.NewNop(), 0, 0)

	svc.RunOnce(context.Background())

	assert.Equal(t, 1, locker.acquired)
	assert.Equal(t, 1, repo.archiveCalls)
}

func TestArchiveRunOnceSkipsWhenLockHeld(t *testing.T) {
	repo := newFakeTaskRepo()
	locker := &fakeLocker{held: true}
	svc := NewArchiveService(repo, locker, logger.NewNop(), 0, 0)

	svc.RunOnce(context.Background())

	assert.Equal(t, 0, locker.acquired)
	assert.Equal(t, 0, repo.archiveCalls)
}
