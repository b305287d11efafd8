package app

import (
	"database/sql"

	"hr-leave/internal/audit"
	"hr-leave/internal/auth"
	"hr-leave/internal/balance"
	"hr-leave/internal/leave"
	"hr-leave/internal/messaging/kafka"
	"hr-leave/internal/middleware"
	"hr-leave/internal/rbac"
	"hr-leave/internal/rbac/infra"
	"hr-leave/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	auditRepo := audit.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(db)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	auditService := audit.NewService(auditRepo)
	userService := user.NewService(userRepo, auditService)
	authService := auth.NewService(userService)
	balanceService := balance.NewService(db, balanceRepo, userService, auditService)
	leaveService := leave.NewService(db, leaveRepo, balanceService, userService, auditService, outboxRepo)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditService)
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	balanceHandler := balance.NewHandler(balanceService)
	leaveHandler := leave.NewHandler(leaveService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, middleware.AuthMiddleware())
		user.RegisterRoutes(api, userHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		audit.RegisterRoutes(api, auditHandler, rbacService)
	}

	rbac.RegisterRoutes(router, rbacHandler)

	return nil
}
