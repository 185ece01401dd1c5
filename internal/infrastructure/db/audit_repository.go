package db

import (
	"context"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"gorm.io/gorm"
)

type auditRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepository(db *gorm.DB, log *logger.Logger) ports.AuditRepository {
	return &auditRepository{db: db, log: log}
}

func (r *auditRepository) Record(ctx context.Context, event *domain.AuditEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		r.log.Errorw("audit_repo_record_failed", "action", event.Action, "outcome", event.Outcome, "error", err)
		return err
	}
	return nil
}

func (r *auditRepository) GetRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	var events []domain.AuditEvent
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		r.log.Errorw("audit_repo_list_failed", "error", err)
		return nil, err
	}
	return events, nil
}

func (r *auditRepository) GetByActor(ctx context.Context, actor string, limit int) ([]domain.AuditEvent, error) {
	var events []domain.AuditEvent
	err := r.db.WithContext(ctx).
		Where("actor = ?", actor).
		Order("created_at desc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		r.log.Errorw("audit_repo_get_by_actor_failed", "actor", actor, "error", err)
		return nil, err
	}
	return events, nil
}
