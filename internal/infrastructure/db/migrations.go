package db

import (
	"github.com/taskboard/backend/internal/domain"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.Task{},
		&domain.TaskComment{},
		&domain.TaskDependency{},
		&domain.User{},
		&domain.AuditEvent{},
	)
	if err != nil {
		return err
	}

	return createCustomIndexes(db)
}

func createCustomIndexes(db *gorm.DB) error {
	// Audit queries filter by actor and action over recent rows
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_audit_events_actor_action
		ON audit_events (actor, action, created_at DESC)
		WHERE deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	// Archiver scans done, unarchived tasks by age
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tasks_archivable
		ON tasks (updated_at)
		WHERE status = 'done' AND archived = false AND deleted_at IS NULL
	`).Error; err != nil {
		return err
	}

	return nil
}
