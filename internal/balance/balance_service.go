package balance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hr-leave/internal/audit"
	balanceerrors "hr-leave/internal/balance/errors"
	"hr-leave/internal/domain"
	"hr-leave/internal/user"

	"go.uber.org/zap"
)

// UserDirectory is the slice of the user service the ledger needs.
type UserDirectory interface {
	Resolve(ctx context.Context, id string) (*user.User, error)
}

// Service is the leave balance ledger. It owns every mutation of the used
// counters; Debit and Credit run inside the caller's transaction so a status
// transition and its ledger effect commit as one unit.
//
//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	GetBalance(ctx context.Context, userID string, year int) (BalanceResponse, error)
	HasSufficientBalance(ctx context.Context, userID string, year int, t domain.LeaveType, days int) (bool, error)
	Debit(ctx context.Context, tx *sql.Tx, userID string, year int, t domain.LeaveType, days int) error
	Credit(ctx context.Context, tx *sql.Tx, userID string, year int, t domain.LeaveType, days int) error
	UpdateAllotments(ctx context.Context, actorID, userID string, year int, req UpdateAllotmentsRequest) (BalanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory UserDirectory
	auditor   audit.Service
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, directory UserDirectory, auditor audit.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{db: db, repo: repo, directory: directory, auditor: auditor, logger: l}
}

func (s *service) GetBalance(ctx context.Context, userID string, year int) (BalanceResponse, error) {
	if year <= 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}
	if _, err := s.directory.Resolve(ctx, userID); err != nil {
		return BalanceResponse{}, err
	}

	if err := s.repo.EnsureDefault(ctx, userID, year); err != nil {
		s.logger.Error("ensure default balance failed",
			zap.String("user_id", userID), zap.Int("year", year), zap.Error(err))
		return BalanceResponse{}, err
	}

	b, err := s.repo.Get(ctx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) HasSufficientBalance(ctx context.Context, userID string, year int, t domain.LeaveType, days int) (bool, error) {
	if !t.Valid() {
		return false, balanceerrors.ErrInvalidLeaveType
	}
	if days <= 0 {
		return false, balanceerrors.ErrInvalidDays
	}
	if !t.Tracked() {
		return true, nil
	}

	resp, err := s.GetBalance(ctx, userID, year)
	if err != nil {
		return false, err
	}

	switch t {
	case domain.LeaveAnnual:
		return resp.RemainingAnnual >= days, nil
	case domain.LeaveSick:
		return resp.RemainingSick >= days, nil
	case domain.LeavePersonal:
		return resp.RemainingPersonal >= days, nil
	default:
		return false, nil
	}
}

// Debit increments the used counter for a tracked category. There is no upper
// clamp: if the sufficiency check at submission was bypassed by a concurrent
// edit, used may exceed the allotment, which is an accepted non-fatal state.
func (s *service) Debit(ctx context.Context, tx *sql.Tx, userID string, year int, t domain.LeaveType, days int) error {
	if !t.Tracked() {
		return nil
	}
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	qtx := s.repo.WithTx(tx)

	if err := qtx.EnsureDefault(ctx, userID, year); err != nil {
		return err
	}
	b, err := qtx.GetForUpdate(ctx, userID, year)
	if err != nil {
		return err
	}

	b.setUsed(t, b.used(t)+days)

	if err := qtx.UpdateUsed(ctx, b); err != nil {
		return err
	}

	s.auditor.Record(ctx, &userID, audit.ActionDeductLeaveBalance, "LeaveBalance", b.ID.String(),
		fmt.Sprintf("Deducted %d days of %s leave", days, strings.ToLower(t.String())))

	s.logger.Info("balance debited",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.String("leave_type", t.String()),
		zap.Int("days", days),
		zap.Int("used", b.used(t)),
	)
	return nil
}

// Credit decrements the used counter, clamped at zero so a duplicated
// restoration can never drive the counter negative. Crediting a (user, year)
// that has no balance row is a no-op.
func (s *service) Credit(ctx context.Context, tx *sql.Tx, userID string, year int, t domain.LeaveType, days int) error {
	if !t.Tracked() {
		return nil
	}
	if days <= 0 {
		return balanceerrors.ErrInvalidDays
	}

	qtx := s.repo.WithTx(tx)

	b, err := qtx.GetForUpdate(ctx, userID, year)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	used := b.used(t) - days
	if used < 0 {
		used = 0
	}
	b.setUsed(t, used)

	if err := qtx.UpdateUsed(ctx, b); err != nil {
		return err
	}

	s.auditor.Record(ctx, &userID, audit.ActionRestoreLeaveBalance, "LeaveBalance", b.ID.String(),
		fmt.Sprintf("Restored %d days of %s leave", days, strings.ToLower(t.String())))

	s.logger.Info("balance credited",
		zap.String("user_id", userID),
		zap.Int("year", year),
		zap.String("leave_type", t.String()),
		zap.Int("days", days),
		zap.Int("used", used),
	)
	return nil
}

func (s *service) UpdateAllotments(ctx context.Context, actorID, userID string, year int, req UpdateAllotmentsRequest) (BalanceResponse, error) {
	s.logger.Debug("update allotments requested",
		zap.String("actor_id", actorID), zap.String("user_id", userID), zap.Int("year", year))

	if year <= 0 {
		return BalanceResponse{}, balanceerrors.ErrInvalidYear
	}
	if req.AnnualAllotment < 0 || req.SickAllotment < 0 || req.PersonalAllotment < 0 {
		return BalanceResponse{}, balanceerrors.ErrNegativeAllotment
	}
	if _, err := s.directory.Resolve(ctx, userID); err != nil {
		return BalanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update allotments begin tx failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.EnsureDefault(ctx, userID, year); err != nil {
		return BalanceResponse{}, err
	}
	b, err := qtx.GetForUpdate(ctx, userID, year)
	if err != nil {
		return BalanceResponse{}, err
	}

	// Allotments below used counters are allowed. The business rule is
	// checked at approval time, not enforced on HR edits.
	b.AnnualAllotment = req.AnnualAllotment
	b.SickAllotment = req.SickAllotment
	b.PersonalAllotment = req.PersonalAllotment

	if err := qtx.UpdateAllotments(ctx, b); err != nil {
		return BalanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update allotments commit failed", zap.Error(err))
		return BalanceResponse{}, err
	}

	s.auditor.Record(ctx, &actorID, audit.ActionUpdateLeaveBalance, "LeaveBalance", b.ID.String(),
		"Updated leave balance")

	s.logger.Info("update allotments success",
		zap.String("user_id", userID), zap.Int("year", year))
	return mapToResponse(*b), nil
}
