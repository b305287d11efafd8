package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Audit actions recorded by this system.
const (
	ActionCreateLeaveRequest  = "CREATE_LEAVE_REQUEST"
	ActionUpdateLeaveRequest  = "UPDATE_LEAVE_REQUEST"
	ActionApproveLeaveRequest = "APPROVED_LEAVE_REQUEST"
	ActionRejectLeaveRequest  = "REJECTED_LEAVE_REQUEST"
	ActionCancelLeaveRequest  = "CANCEL_LEAVE_REQUEST"
	ActionDeductLeaveBalance  = "DEDUCT_LEAVE_BALANCE"
	ActionRestoreLeaveBalance = "RESTORE_LEAVE_BALANCE"
	ActionUpdateLeaveBalance  = "UPDATE_LEAVE_BALANCE"
	ActionCreateUser          = "CREATE_USER"
	ActionUpdateUser          = "UPDATE_USER"
	ActionDeleteUser          = "DELETE_USER"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	// Record appends an audit entry. It never returns an error: audit
	// persistence failures are logged and swallowed so they cannot fail
	// the caller's operation.
	Record(ctx context.Context, actorID *string, action, entityType, entityID, details string)

	GetByActor(ctx context.Context, actorID string) ([]AuditLog, error)
	GetByAction(ctx context.Context, action string) ([]AuditLog, error)
	GetByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]AuditLog, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Record(ctx context.Context, actorID *string, action, entityType, entityID, details string) {
	entry := &AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if actorID != nil {
		if parsed, err := uuid.Parse(*actorID); err == nil {
			entry.ActorID = &parsed
		}
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("record audit entry failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("audit entry recorded",
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
	)
}

func (s *service) GetByActor(ctx context.Context, actorID string) ([]AuditLog, error) {
	return s.repo.FindByActor(ctx, actorID)
}

func (s *service) GetByAction(ctx context.Context, action string) ([]AuditLog, error) {
	return s.repo.FindByAction(ctx, action)
}

func (s *service) GetByEntity(ctx context.Context, entityType, entityID string) ([]AuditLog, error) {
	return s.repo.FindByEntity(ctx, entityType, entityID)
}

func (s *service) GetByDateRange(ctx context.Context, from, to time.Time) ([]AuditLog, error) {
	return s.repo.FindByDateRange(ctx, from, to)
}
