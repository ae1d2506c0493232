package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	iauth "github.com/reelhub/reelhub/internal/auth"
	"github.com/reelhub/reelhub/internal/cache"
	"github.com/reelhub/reelhub/internal/handlers"
	"github.com/reelhub/reelhub/internal/middleware"
)

// Dependencies are the wired components the router serves.
type Dependencies struct {
	DB             *gorm.DB
	JWT            *iauth.JWTService
	Auth           *handlers.AuthHandler
	Audit          *handlers.AuditHandler
	RateStore      cache.Store
	RateLimit      middleware.RateLimitConfig
	HealthChecks   map[string]handlers.Pinger
	MetricsEnabled bool
	MetricsPath    string
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, errors.New("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, errors.New("jwt service must be provided")
	}
	if deps.Auth == nil {
		return nil, errors.New("auth handler must be provided")
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.NoRoute(middleware.NotFoundHandler)

	registerHealthRoutes(r, deps)
	registerMetricsRoutes(r, deps)
	registerAuthRoutes(r, deps)

	return r, nil
}
