package balance

import (
	"hr-leave/internal/middleware"
	"hr-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/mine", middleware.RBACAuthorize(rbacService, "leave_balance", "read_own"), handler.GetMine)
		balances.GET("/user/:userId", middleware.RBACAuthorize(rbacService, "leave_balance", "read_all"), handler.GetByUser)
		balances.PUT("/user/:userId", middleware.RBACAuthorize(rbacService, "leave_balance", "update"), handler.UpdateAllotments)
	}
}
