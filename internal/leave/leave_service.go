package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hr-leave/internal/audit"
	"hr-leave/internal/balance"
	balanceerrors "hr-leave/internal/balance/errors"
	"hr-leave/internal/domain"
	"hr-leave/internal/events"
	leaveerrors "hr-leave/internal/leave/errors"
	"hr-leave/internal/messaging/kafka"
	"hr-leave/internal/shared/contextutil"
	"hr-leave/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserDirectory is the slice of the user service the workflow needs.
type UserDirectory interface {
	Resolve(ctx context.Context, id string) (*user.User, error)
	ManagerOf(ctx context.Context, userID string) (*user.User, error)
}

// Service owns the leave request lifecycle. Status transitions and their
// ledger effects are applied in a single transaction, with the request row
// locked first so two concurrent decisions on the same request cannot both
// observe PENDING.
//
//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	Update(ctx context.Context, id, userID string, req UpdateLeaveRequest) (LeaveResponse, error)
	Review(ctx context.Context, id, reviewerID string, req ReviewLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, id, userID string) error

	GetAll(ctx context.Context) ([]LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetByUser(ctx context.Context, userID string) ([]LeaveResponse, error)
	GetByManager(ctx context.Context, managerID string) ([]LeaveResponse, error)
	GetPendingByManager(ctx context.Context, managerID string) ([]LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	ledger    balance.Service
	directory UserDirectory
	auditor   audit.Service
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	ledger balance.Service,
	directory UserDirectory,
	auditor audit.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		ledger:    ledger,
		directory: directory,
		auditor:   auditor,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("user_id", userID),
		zap.String("type", req.Type),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("days", req.Days),
	)

	leaveType, startDate, endDate, err := validateRequestFields(req.Type, req.StartDate, req.EndDate, req.Days, req.Reason)
	if err != nil {
		s.logger.Warn("create leave request validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	u, err := s.directory.Resolve(ctx, userID)
	if err != nil {
		return LeaveResponse{}, err
	}

	// Sufficiency is checked against the year the leave starts in, so the
	// check stays deterministic across year boundaries.
	ok, err := s.ledger.HasSufficientBalance(ctx, userID, startDate.Year(), leaveType, req.Days)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		s.logger.Warn("create leave request insufficient balance",
			zap.String("user_id", userID),
			zap.String("type", req.Type),
			zap.Int("days", req.Days),
		)
		return LeaveResponse{}, balanceerrors.ErrInsufficientBalance
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request := &LeaveRequest{
		ID:          uuid.New(),
		UserID:      u.ID,
		Type:        leaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        req.Days,
		Reason:      req.Reason,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
	}

	if err := qtx.Insert(ctx, request); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// The manager notification intent commits with the request. Employees
	// without a manager simply get no notification.
	manager, err := s.directory.ManagerOf(ctx, userID)
	if err != nil {
		return LeaveResponse{}, err
	}
	if manager != nil {
		if err := s.enqueueSubmittedEvent(ctx, tx, request, manager.ID.String()); err != nil {
			s.logger.Error("enqueue submitted event failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.auditor.Record(ctx, &userID, audit.ActionCreateLeaveRequest, "LeaveRequest", request.ID.String(),
		fmt.Sprintf("Created leave request for %d days", request.Days))

	s.logger.Info("create leave request success",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID),
	)
	return mapToResponse(*request), nil
}

// Update overwrites the mutable fields of a pending request. Sufficiency is
// deliberately not re-checked for the new day count: a pending request has
// consumed no balance yet, and the original submission was validated.
func (s *service) Update(ctx context.Context, id, userID string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave request",
		zap.String("request_id", id),
		zap.String("user_id", userID),
	)

	leaveType, startDate, endDate, err := validateRequestFields(req.Type, req.StartDate, req.EndDate, req.Days, req.Reason)
	if err != nil {
		s.logger.Warn("update leave request validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	if _, err := s.directory.Resolve(ctx, userID); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave request begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	if request.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}
	if request.UserID.String() != userID {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}

	request.Type = leaveType
	request.StartDate = startDate
	request.EndDate = endDate
	request.Days = req.Days
	request.Reason = req.Reason

	if err := qtx.UpdateFields(ctx, request); err != nil {
		s.logger.Error("update leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave request commit failed", zap.String("request_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.auditor.Record(ctx, &userID, audit.ActionUpdateLeaveRequest, "LeaveRequest", id,
		"Updated leave request")

	s.logger.Info("update leave request success", zap.String("request_id", id))
	return mapToResponse(*request), nil
}

func (s *service) Review(ctx context.Context, id, reviewerID string, req ReviewLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("review leave request",
		zap.String("request_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", req.Decision),
	)

	if req.Decision != StatusApproved && req.Decision != StatusRejected {
		return LeaveResponse{}, leaveerrors.ErrInvalidDecision
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}

	reviewer, err := s.directory.Resolve(ctx, reviewerID)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review leave request begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}

	// At-most-once review: the row is locked, so exactly one of two racing
	// reviewers observes PENDING here. The loser fails instead of silently
	// overwriting the decision.
	if request.Status != StatusPending {
		s.logger.Warn("review leave request not pending",
			zap.String("request_id", id),
			zap.String("status", request.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrNotPending
	}

	now := time.Now().UTC()
	request.Status = req.Decision
	request.ReviewedAt = &now
	request.ReviewedBy = &reviewer.ID
	if req.Comments != "" {
		request.ReviewerComments = &req.Comments
	}

	if err := qtx.UpdateDecision(ctx, request); err != nil {
		s.logger.Error("review leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	// The debit commits atomically with the APPROVED status: no observer
	// can see an approved request whose balance has not been charged.
	if req.Decision == StatusApproved {
		err := s.ledger.Debit(ctx, tx, request.UserID.String(), request.StartDate.Year(), request.Type, request.Days)
		if err != nil {
			s.logger.Error("review leave request debit failed", zap.String("request_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := s.enqueueReviewedEvent(ctx, tx, request); err != nil {
		s.logger.Error("enqueue reviewed event failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("review leave request commit failed", zap.String("request_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	action := audit.ActionRejectLeaveRequest
	details := "rejected leave request"
	if req.Decision == StatusApproved {
		action = audit.ActionApproveLeaveRequest
		details = "approved leave request"
	}
	s.auditor.Record(ctx, &reviewerID, action, "LeaveRequest", id, details)

	s.logger.Info("review leave request success",
		zap.String("request_id", id),
		zap.String("decision", req.Decision),
	)
	return mapToResponse(*request), nil
}

func (s *service) Cancel(ctx context.Context, id, userID string) error {
	s.logger.Debug("cancel leave request",
		zap.String("request_id", id),
		zap.String("user_id", userID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidRequestID
	}
	if _, err := s.directory.Resolve(ctx, userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave request begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.GetForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leaveerrors.ErrRequestNotFound
		}
		return err
	}
	if request.UserID.String() != userID {
		return leaveerrors.ErrNotRequestOwner
	}
	if !isAllowedStatusTransition(request.Status, StatusCancelled) {
		return leaveerrors.ErrNotCancellable
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if request.Status == StatusApproved && request.StartDate.Before(today) {
		s.logger.Warn("cancel leave request already started",
			zap.String("request_id", id),
			zap.Time("start_date", request.StartDate),
		)
		return leaveerrors.ErrAlreadyStarted
	}

	wasApproved := request.Status == StatusApproved
	request.Status = StatusCancelled

	if err := qtx.UpdateStatus(ctx, request); err != nil {
		s.logger.Error("cancel leave request persist failed", zap.String("request_id", id), zap.Error(err))
		return err
	}

	// Exactly one credit per approval: the ledger is restored only when the
	// cancelled request had been approved, and cancellation is terminal.
	if wasApproved {
		err := s.ledger.Credit(ctx, tx, userID, request.StartDate.Year(), request.Type, request.Days)
		if err != nil {
			s.logger.Error("cancel leave request credit failed", zap.String("request_id", id), zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave request commit failed", zap.String("request_id", id), zap.Error(err))
		return err
	}

	s.auditor.Record(ctx, &userID, audit.ActionCancelLeaveRequest, "LeaveRequest", id,
		"Cancelled leave request")

	s.logger.Info("cancel leave request success", zap.String("request_id", id))
	return nil
}

func (s *service) GetAll(ctx context.Context) ([]LeaveResponse, error) {
	requests, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequestID
	}
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrRequestNotFound
		}
		return LeaveResponse{}, err
	}
	return mapToResponse(*request), nil
}

func (s *service) GetByUser(ctx context.Context, userID string) ([]LeaveResponse, error) {
	if _, err := s.directory.Resolve(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByManager(ctx context.Context, managerID string) ([]LeaveResponse, error) {
	if _, err := s.directory.Resolve(ctx, managerID); err != nil {
		return nil, err
	}
	requests, err := s.repo.FindByManagerID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetPendingByManager(ctx context.Context, managerID string) ([]LeaveResponse, error) {
	if _, err := s.directory.Resolve(ctx, managerID); err != nil {
		return nil, err
	}
	requests, err := s.repo.FindPendingByManagerID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) enqueueSubmittedEvent(ctx context.Context, tx *sql.Tx, request *LeaveRequest, managerID string) error {
	payload, err := json.Marshal(events.LeaveRequestSubmittedEvent{
		EventType:  events.TypeLeaveRequestSubmitted,
		RequestID:  request.ID.String(),
		UserID:     request.UserID.String(),
		ManagerID:  managerID,
		LeaveType:  request.Type.String(),
		StartDate:  request.StartDate.Format("2006-01-02"),
		EndDate:    request.EndDate.Format("2006-01-02"),
		Days:       request.Days,
		Reason:     request.Reason,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "LeaveRequest",
		AggregateID:   request.ID.String(),
		EventType:     events.TypeLeaveRequestSubmitted,
		Topic:         events.LeaveNotificationsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueReviewedEvent(ctx context.Context, tx *sql.Tx, request *LeaveRequest) error {
	comments := ""
	if request.ReviewerComments != nil {
		comments = *request.ReviewerComments
	}
	payload, err := json.Marshal(events.LeaveRequestReviewedEvent{
		EventType:  events.TypeLeaveRequestReviewed,
		RequestID:  request.ID.String(),
		UserID:     request.UserID.String(),
		Status:     request.Status,
		LeaveType:  request.Type.String(),
		StartDate:  request.StartDate.Format("2006-01-02"),
		EndDate:    request.EndDate.Format("2006-01-02"),
		Days:       request.Days,
		Comments:   comments,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "LeaveRequest",
		AggregateID:   request.ID.String(),
		EventType:     events.TypeLeaveRequestReviewed,
		Topic:         events.LeaveNotificationsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func validateRequestFields(leaveType, startDate, endDate string, days int, reason string) (domain.LeaveType, time.Time, time.Time, error) {
	t := domain.LeaveType(leaveType)
	if !t.Valid() {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidLeaveType
	}
	start, err := parseDate(startDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	end, err := parseDate(endDate)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	if start.After(end) {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	if days <= 0 {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrInvalidDays
	}
	if reason == "" {
		return "", time.Time{}, time.Time{}, leaveerrors.ErrReasonRequired
	}
	return t, start, end, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}
