package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the auth endpoints. The /me endpoint requires
// an authenticated caller, the rest are public.
func RegisterRoutes(rg *gin.RouterGroup, h *Handler, authMW gin.HandlerFunc) {
	grp := rg.Group("/auth")
	{
		grp.POST("/login", h.Login)
		grp.POST("/refresh", h.Refresh)
		grp.GET("/me", authMW, h.Me)
	}
}
