package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hr-leave/internal/audit"
	usererrors "hr-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service is the user directory: it resolves identities, roles and the
// manager relationship consumed by the leave workflow.
//
//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Resolve(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByRole(ctx context.Context, role string) ([]UserResponse, error)
	GetByDepartment(ctx context.Context, department string) ([]UserResponse, error)
	ManagerOf(ctx context.Context, userID string) (*User, error)
	DirectReportsOf(ctx context.Context, managerID string) ([]UserResponse, error)
	Create(ctx context.Context, actorID *string, req CreateUserRequest) (UserResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, actorID, id string) error
}

type service struct {
	repo    Repository
	auditor audit.Service
	logger  *zap.Logger
}

func NewService(repo Repository, auditor audit.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, auditor: auditor, logger: l}
}

func (s *service) Resolve(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, usererrors.ErrInvalidUserID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByRole(ctx context.Context, role string) ([]UserResponse, error) {
	if !IsValidRole(role) {
		return nil, usererrors.ErrInvalidRole
	}
	users, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByDepartment(ctx context.Context, department string) ([]UserResponse, error) {
	users, err := s.repo.FindByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(users), nil
}

// ManagerOf returns the user's manager, or nil when the user has none.
func (s *service) ManagerOf(ctx context.Context, userID string) (*User, error) {
	u, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.ManagerID == nil {
		return nil, nil
	}

	manager, err := s.repo.FindByID(ctx, u.ManagerID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, err
	}
	return manager, nil
}

func (s *service) DirectReportsOf(ctx context.Context, managerID string) ([]UserResponse, error) {
	if _, err := s.Resolve(ctx, managerID); err != nil {
		return nil, err
	}
	reports, err := s.repo.FindByManagerID(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(reports), nil
}

func (s *service) Create(ctx context.Context, actorID *string, req CreateUserRequest) (UserResponse, error) {
	s.logger.Debug("create user requested", zap.String("email", req.Email), zap.String("role", req.Role))

	managerID, err := s.resolveManagerRef(ctx, req.ManagerID, nil)
	if err != nil {
		return UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	u := &User{
		ID:         uuid.New(),
		Email:      req.Email,
		Password:   string(hash),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       req.Role,
		ManagerID:  managerID,
		Department: req.Department,
		JoinDate:   time.Now().UTC(),
		Enabled:    true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmailTaken
		}
		s.logger.Error("create user persist failed", zap.Error(err))
		return UserResponse{}, err
	}

	s.auditor.Record(ctx, actorID, audit.ActionCreateUser, "User", u.ID.String(),
		fmt.Sprintf("Created user: %s", u.Email))

	s.logger.Info("create user success", zap.String("user_id", u.ID.String()), zap.String("role", u.Role))
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, actorID, id string, req UpdateUserRequest) (UserResponse, error) {
	s.logger.Debug("update user requested", zap.String("user_id", id), zap.String("actor_id", actorID))

	u, err := s.Resolve(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}

	managerID, err := s.resolveManagerRef(ctx, req.ManagerID, &id)
	if err != nil {
		return UserResponse{}, err
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Role = req.Role
	u.ManagerID = managerID
	u.Department = req.Department

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return UserResponse{}, err
		}
		u.Password = string(hash)
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user persist failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	s.auditor.Record(ctx, &actorID, audit.ActionUpdateUser, "User", u.ID.String(),
		fmt.Sprintf("Updated user: %s", u.Email))

	s.logger.Info("update user success", zap.String("user_id", id))
	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, actorID, id string) error {
	u, err := s.Resolve(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return err
	}

	s.auditor.Record(ctx, &actorID, audit.ActionDeleteUser, "User", id,
		fmt.Sprintf("Deleted user: %s", u.Email))

	s.logger.Info("delete user success", zap.String("user_id", id))
	return nil
}

// resolveManagerRef validates an optional manager reference. Cycle prevention
// beyond self-reference is left to the directory data itself.
func (s *service) resolveManagerRef(ctx context.Context, ref *string, selfID *string) (*uuid.UUID, error) {
	if ref == nil || *ref == "" {
		return nil, nil
	}
	if selfID != nil && *ref == *selfID {
		return nil, usererrors.ErrSelfManager
	}

	manager, err := s.repo.FindByID(ctx, *ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usererrors.ErrManagerNotFound
		}
		return nil, err
	}
	return &manager.ID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
