package audit

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=audit_repo.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, entry *AuditLog) error
	FindByActor(ctx context.Context, actorID string) ([]AuditLog, error)
	FindByAction(ctx context.Context, action string) ([]AuditLog, error)
	FindByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, entry *AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindByActor(ctx context.Context, actorID string) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByAction(ctx context.Context, action string) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("action = ?", action).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindByDateRange(ctx context.Context, from, to time.Time) ([]AuditLog, error) {
	var entries []AuditLog
	err := r.db.WithContext(ctx).
		Where("created_at >= ?", from).
		Where("created_at <= ?", to).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}
