package api

import (
	"github.com/gin-gonic/gin"

	"github.com/reelhub/reelhub/internal/middleware"
	"github.com/reelhub/reelhub/internal/models"
)

func registerAuthRoutes(r *gin.Engine, deps Dependencies) {
	auth := r.Group("/api/auth")
	auth.Use(middleware.RateLimit(deps.RateStore, deps.RateLimit))
	{
		auth.POST("/new-verification", deps.Auth.NewVerification)
		auth.POST("/reset", deps.Auth.Reset)
		auth.POST("/new-password", deps.Auth.NewPassword)
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
	}

	protected := r.Group("/api")
	protected.Use(middleware.Auth(deps.JWT))
	protected.GET("/account/me", deps.Auth.Me)

	if deps.Audit != nil {
		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		admin.GET("/audit", deps.Audit.List)
	}
}
