package services

import (
	"context"
	"time"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// archiveLockKey identifies the postgres advisory lock that keeps the
// archival job single-instance across backend replicas.
const archiveLockKey int64 = 0x7461736b62617263 // "taskbarc"

// ArchiveService periodically archives done tasks older than the retention
// window. Each cycle takes a database advisory lock first; a replica that
// fails to get the lock skips the cycle instead of double-archiving.
type ArchiveService struct {
	repo      ports.TaskRepository
	locker    ports.Locker
	logger    *logger.Logger
	retention time.Duration
	interval  time.Duration
}

func NewArchiveService(repo ports.TaskRepository, locker ports.Locker, log *logger.Logger, retention, interval time.Duration) *ArchiveService {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &ArchiveService{
		repo:      repo,
		locker:    locker,
		logger:    log,
		retention: retention,
		interval:  interval,
	}
}

// Run blocks until ctx is cancelled.
func (s *ArchiveService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infow("archiver_started", "retention", s.retention, "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("archiver stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single archival cycle.
func (s *ArchiveService) RunOnce(ctx context.Context) {
	acquired, err := s.locker.WithLock(ctx, archiveLockKey, func(ctx context.Context) error {
		cutoff := time.Now().Add(-s.retention)
		archived, err := s.repo.ArchiveDoneBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if archived > 0 {
			s.logger.Infow("archiver_cycle_ok", "archived", archived, "cutoff", cutoff)
		}
		return nil
	})
	if err != nil {
		s.logger.Errorw("archiver_cycle_failed", "error", err)
		return
	}
	if !acquired {
		s.logger.Debugw("archiver_cycle_skipped", "reason", "lock held elsewhere")
	}
}
