package user_test

import (
	"context"
	"testing"
	"time"

	"hr-leave/internal/audit"
	"hr-leave/internal/user"
	usererrors "hr-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn          func(ctx context.Context, u *user.User) error
	findByIDFn        func(ctx context.Context, id string) (*user.User, error)
	findByEmailFn     func(ctx context.Context, email string) (*user.User, error)
	findByManagerIDFn func(ctx context.Context, managerID string) ([]user.User, error)
	updateFn          func(ctx context.Context, u *user.User) error
	deleteFn          func(ctx context.Context, id string) error
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.findByEmailFn != nil {
		return f.findByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByRole(ctx context.Context, role string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindByDepartment(ctx context.Context, department string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) FindByManagerID(ctx context.Context, managerID string) ([]user.User, error) {
	if f.findByManagerIDFn != nil {
		return f.findByManagerIDFn(ctx, managerID)
	}
	return nil, nil
}

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

type fakeUserAuditor struct {
	actions []string
}

func (f *fakeUserAuditor) Record(ctx context.Context, actorID *string, action, entityType, entityID, details string) {
	f.actions = append(f.actions, action)
}

func (f *fakeUserAuditor) GetByActor(ctx context.Context, actorID string) ([]audit.AuditLog, error) {
	return nil, nil
}

func (f *fakeUserAuditor) GetByAction(ctx context.Context, action string) ([]audit.AuditLog, error) {
	return nil, nil
}

func (f *fakeUserAuditor) GetByEntity(ctx context.Context, entityType, entityID string) ([]audit.AuditLog, error) {
	return nil, nil
}

func (f *fakeUserAuditor) GetByDateRange(ctx context.Context, from, to time.Time) ([]audit.AuditLog, error) {
	return nil, nil
}

func newTestUser(id uuid.UUID) *user.User {
	return &user.User{
		ID:        id,
		Email:     "employee@example.com",
		FirstName: "Jordan",
		LastName:  "Reyes",
		Role:      user.RoleEmployee,
		Enabled:   true,
	}
}

func TestUserService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, lookupID string) (*user.User, error) {
				assert.Equal(t, id.String(), lookupID)
				return newTestUser(id), nil
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		u, err := svc.Resolve(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, id, u.ID)
	})

	t.Run("malformed id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeUserAuditor{})

		_, err := svc.Resolve(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{}, &fakeUserAuditor{})

		_, err := svc.Resolve(ctx, uuid.New().String())
		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_ManagerOf(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the manager", func(t *testing.T) {
		employeeID := uuid.New()
		managerID := uuid.New()

		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				switch id {
				case employeeID.String():
					u := newTestUser(employeeID)
					u.ManagerID = &managerID
					return u, nil
				case managerID.String():
					m := newTestUser(managerID)
					m.Role = user.RoleManager
					return m, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		manager, err := svc.ManagerOf(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Equal(t, managerID, manager.ID)
	})

	t.Run("nil when the user has no manager", func(t *testing.T) {
		employeeID := uuid.New()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				return newTestUser(employeeID), nil
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		manager, err := svc.ManagerOf(ctx, employeeID.String())
		assert.NoError(t, err)
		assert.Nil(t, manager)
	})

	t.Run("dangling manager reference", func(t *testing.T) {
		employeeID := uuid.New()
		managerID := uuid.New()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id string) (*user.User, error) {
				if id == employeeID.String() {
					u := newTestUser(employeeID)
					u.ManagerID = &managerID
					return u, nil
				}
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		_, err := svc.ManagerOf(ctx, employeeID.String())
		assert.ErrorIs(t, err, usererrors.ErrManagerNotFound)
	})
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	validReq := user.CreateUserRequest{
		Email:      "new@example.com",
		Password:   "s3cret-pass",
		FirstName:  "Sam",
		LastName:   "Okafor",
		Role:       user.RoleEmployee,
		Department: "Engineering",
	}

	t.Run("hashes the password and audits", func(t *testing.T) {
		var created *user.User
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				created = u
				return nil
			},
		}
		auditor := &fakeUserAuditor{}
		svc := user.NewService(repo, auditor)

		resp, err := svc.Create(ctx, &actorID, validReq)
		assert.NoError(t, err)
		assert.Equal(t, validReq.Email, resp.Email)
		assert.True(t, resp.Enabled)

		assert.NotNil(t, created)
		assert.NotEqual(t, validReq.Password, created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(validReq.Password)))
		assert.Contains(t, auditor.actions, audit.ActionCreateUser)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		_, err := svc.Create(ctx, &actorID, validReq)
		assert.ErrorIs(t, err, usererrors.ErrEmailTaken)
	})

	t.Run("unknown manager reference", func(t *testing.T) {
		req := validReq
		managerID := uuid.New().String()
		req.ManagerID = &managerID

		svc := user.NewService(&fakeUserRepository{}, &fakeUserAuditor{})

		_, err := svc.Create(ctx, &actorID, req)
		assert.ErrorIs(t, err, usererrors.ErrManagerNotFound)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()

	t.Run("rejects self as manager", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, lookupID string) (*user.User, error) {
				return newTestUser(id), nil
			},
		}
		svc := user.NewService(repo, &fakeUserAuditor{})

		self := id.String()
		_, err := svc.Update(ctx, actorID, id.String(), user.UpdateUserRequest{
			FirstName:  "Jordan",
			LastName:   "Reyes",
			Role:       user.RoleEmployee,
			Department: "Engineering",
			ManagerID:  &self,
		})
		assert.ErrorIs(t, err, usererrors.ErrSelfManager)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New().String()
	id := uuid.New()

	deleted := false
	repo := &fakeUserRepository{
		findByIDFn: func(ctx context.Context, lookupID string) (*user.User, error) {
			return newTestUser(id), nil
		},
		deleteFn: func(ctx context.Context, lookupID string) error {
			deleted = true
			assert.Equal(t, id.String(), lookupID)
			return nil
		},
	}
	auditor := &fakeUserAuditor{}
	svc := user.NewService(repo, auditor)

	err := svc.Delete(ctx, actorID, id.String())
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.Contains(t, auditor.actions, audit.ActionDeleteUser)
}
