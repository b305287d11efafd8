package rbac

import (
	"sync"

	"hr-leave/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

// permission is one role -> resource/action grant. Roles inherit through
// the grouping policy below: MANAGER gets everything EMPLOYEE has, HR
// gets everything MANAGER has.
type permission struct {
	role     string
	resource string
	action   string
}

var rolePermissions = []permission{
	{"EMPLOYEE", "leave_request", "create"},
	{"EMPLOYEE", "leave_request", "read_own"},
	{"EMPLOYEE", "leave_request", "update_own"},
	{"EMPLOYEE", "leave_request", "cancel"},
	{"EMPLOYEE", "leave_balance", "read_own"},

	{"MANAGER", "leave_request", "review"},
	{"MANAGER", "leave_request", "read_team"},
	{"MANAGER", "user", "read"},

	{"HR", "leave_request", "read_all"},
	{"HR", "leave_balance", "read_all"},
	{"HR", "leave_balance", "update"},
	{"HR", "user", "manage"},
	{"HR", "audit_log", "read"},
}

var roleInheritance = [][2]string{
	{"MANAGER", "EMPLOYEE"},
	{"HR", "MANAGER"},
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}

	s := &service{
		enforcer: enforcer,
		logger:   l,
	}
	if err := s.seedPolicies(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *service) seedPolicies() error {
	s.enforcer.ClearPolicy()

	for _, p := range rolePermissions {
		if _, err := s.enforcer.AddPolicy(p.role, p.resource, p.action); err != nil {
			return err
		}
	}
	for _, g := range roleInheritance {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	s.logger.Info("rbac policies seeded",
		zap.Int("permissions", len(rolePermissions)),
		zap.Int("inheritance_links", len(roleInheritance)),
	)
	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("user_id", req.UserID),
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("user_id", req.UserID),
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
