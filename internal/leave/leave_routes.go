package leave

import (
	"hr-leave/internal/middleware"
	"hr-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("",
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			middleware.Idempotency(rdb),
			handler.Create,
		)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read_all"), handler.GetAll)
		requests.GET("/mine", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.GetMine)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read_own"), handler.GetByID)
		requests.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "update_own"), handler.Update)
		requests.POST("/:id/review", middleware.RBACAuthorize(rbacService, "leave_request", "review"), handler.Review)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave_request", "cancel"), handler.Cancel)
		requests.GET("/user/:userId", middleware.RBACAuthorize(rbacService, "leave_request", "read_team"), handler.GetByUser)
		requests.GET("/manager/:managerId", middleware.RBACAuthorize(rbacService, "leave_request", "read_team"), handler.GetByManager)
		requests.GET("/manager/:managerId/pending", middleware.RBACAuthorize(rbacService, "leave_request", "read_team"), handler.GetPendingByManager)
	}
}
