package rbac_test

import (
	"testing"

	"hr-leave/internal/domain"
	"hr-leave/internal/rbac"
	"hr-leave/internal/rbac/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) rbac.Service {
	t.Helper()

	enforcer, err := infra.NewEnforcer()
	assert.NoError(t, err)

	svc, err := rbac.NewService(enforcer)
	assert.NoError(t, err)
	return svc
}

func enforce(t *testing.T, svc rbac.Service, role, resource, action string) bool {
	t.Helper()
	allowed, err := svc.Enforce(domain.EnforceRequest{
		UserID:   uuid.New().String(),
		Role:     role,
		Resource: resource,
		Action:   action,
	})
	assert.NoError(t, err)
	return allowed
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newTestService(t)

	t.Run("employee permissions", func(t *testing.T) {
		assert.True(t, enforce(t, svc, "EMPLOYEE", "leave_request", "create"))
		assert.True(t, enforce(t, svc, "EMPLOYEE", "leave_request", "cancel"))
		assert.True(t, enforce(t, svc, "EMPLOYEE", "leave_balance", "read_own"))

		assert.False(t, enforce(t, svc, "EMPLOYEE", "leave_request", "review"))
		assert.False(t, enforce(t, svc, "EMPLOYEE", "leave_request", "read_all"))
		assert.False(t, enforce(t, svc, "EMPLOYEE", "user", "manage"))
		assert.False(t, enforce(t, svc, "EMPLOYEE", "audit_log", "read"))
	})

	t.Run("manager inherits employee permissions", func(t *testing.T) {
		assert.True(t, enforce(t, svc, "MANAGER", "leave_request", "review"))
		assert.True(t, enforce(t, svc, "MANAGER", "leave_request", "read_team"))
		assert.True(t, enforce(t, svc, "MANAGER", "leave_request", "create"))
		assert.True(t, enforce(t, svc, "MANAGER", "user", "read"))

		assert.False(t, enforce(t, svc, "MANAGER", "leave_balance", "update"))
		assert.False(t, enforce(t, svc, "MANAGER", "user", "manage"))
	})

	t.Run("hr inherits everything", func(t *testing.T) {
		assert.True(t, enforce(t, svc, "HR", "leave_request", "read_all"))
		assert.True(t, enforce(t, svc, "HR", "leave_request", "review"))
		assert.True(t, enforce(t, svc, "HR", "leave_request", "create"))
		assert.True(t, enforce(t, svc, "HR", "leave_balance", "update"))
		assert.True(t, enforce(t, svc, "HR", "user", "manage"))
		assert.True(t, enforce(t, svc, "HR", "audit_log", "read"))
	})

	t.Run("unknown role has no permissions", func(t *testing.T) {
		assert.False(t, enforce(t, svc, "CONTRACTOR", "leave_request", "create"))
	})
}
