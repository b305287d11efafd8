package auth_test

import (
	"context"
	"os"
	"testing"

	"hr-leave/internal/auth"
	autherrors "hr-leave/internal/auth/errors"
	"hr-leave/internal/user"
	usererrors "hr-leave/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeAuthDirectory struct {
	users map[string]*user.User
}

func (f *fakeAuthDirectory) Resolve(ctx context.Context, id string) (*user.User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, usererrors.ErrUserNotFound
}

func (f *fakeAuthDirectory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, usererrors.ErrUserNotFound
}

func newAuthFixture(t *testing.T, password string, enabled bool) (*fakeAuthDirectory, *user.User) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)

	u := &user.User{
		ID:        uuid.New(),
		Email:     "employee@example.com",
		Password:  string(hash),
		FirstName: "Jordan",
		LastName:  "Reyes",
		Role:      user.RoleEmployee,
		Enabled:   enabled,
	}
	return &fakeAuthDirectory{users: map[string]*user.User{u.Email: u}}, u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns a signed pair", func(t *testing.T) {
		directory, u := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		pair, resp, err := svc.Login(ctx, u.Email, "correct-password")
		assert.NoError(t, err)
		assert.Equal(t, u.ID.String(), resp.ID)
		assert.Equal(t, user.RoleEmployee, resp.Role)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		token, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, u.ID.String(), claims["user_id"])
		assert.Equal(t, user.RoleEmployee, claims["role"])
	})

	t.Run("wrong password", func(t *testing.T) {
		directory, u := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		_, _, err := svc.Login(ctx, u.Email, "wrong-password")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		directory, _ := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		_, _, err := svc.Login(ctx, "nobody@example.com", "correct-password")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("disabled account", func(t *testing.T) {
		directory, u := newAuthFixture(t, "correct-password", false)
		svc := auth.NewService(directory)

		_, _, err := svc.Login(ctx, u.Email, "correct-password")
		assert.ErrorIs(t, err, autherrors.ErrAccountDisabled)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("success rotates the pair", func(t *testing.T) {
		directory, u := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		pair, _, err := svc.Login(ctx, u.Email, "correct-password")
		assert.NoError(t, err)

		newPair, resp, err := svc.Refresh(ctx, pair.RefreshToken)
		assert.NoError(t, err)
		assert.Equal(t, u.ID.String(), resp.ID)
		assert.NotEmpty(t, newPair.AccessToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		directory, _ := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		_, _, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		directory, u := newAuthFixture(t, "correct-password", true)
		svc := auth.NewService(directory)

		forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": u.ID.String()})
		signed, err := forged.SignedString([]byte("different-secret"))
		assert.NoError(t, err)

		_, _, err = svc.Refresh(ctx, signed)
		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	directory, u := newAuthFixture(t, "correct-password", true)
	svc := auth.NewService(directory)

	resp, err := svc.Me(ctx, u.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, u.Email, resp.Email)
}
