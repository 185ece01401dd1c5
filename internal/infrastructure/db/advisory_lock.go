package db

import (
	"context"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type advisoryLocker struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewAdvisoryLocker returns a Locker backed by postgres session advisory
// locks. Lock and unlock must happen on the same connection, so the whole
// critical section is pinned to one via gorm's Connection.
func NewAdvisoryLocker(db *gorm.DB, log *logger.Logger) ports.Locker {
	return &advisoryLocker{db: db, log: log}
}

func (l *advisoryLocker) WithLock(ctx context.Context, key int64, fn func(context.Context) error) (bool, error) {
	acquired := false
	err := l.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		var got bool
		if err := tx.Raw("SELECT pg_try_advisory_lock(?)", key).Scan(&got).Error; err != nil {
			return err
		}
		if !got {
			return nil
		}
		acquired = true
		defer func() {
			if err := tx.Exec("SELECT pg_advisory_unlock(?)", key).Error; err != nil {
				l.log.Errorw("advisory_unlock_failed", "key", key, "error", err)
			}
		}()
		return fn(ctx)
	})
	return acquired, err
}
