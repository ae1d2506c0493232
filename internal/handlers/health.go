package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/reelhub/reelhub/pkg/errors"
	"github.com/reelhub/reelhub/pkg/response"
)

// Pinger is an optional dependency checked by the health endpoint, such as Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports readiness by pinging the database and any extra dependencies.
func Health(db *gorm.DB, deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(requestContext(c), 2*time.Second)
		defer cancel()

		checks := gin.H{}
		healthy := true

		if db != nil {
			status := "ok"
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status, healthy = "down", false
			}
			checks["database"] = status
		}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			status := "ok"
			if err := dep.Ping(ctx); err != nil {
				status, healthy = "down", false
			}
			checks[name] = status
		}

		if !healthy {
			response.Error(c, errors.New("SERVICE_UNAVAILABLE", "One or more dependencies are unavailable", http.StatusServiceUnavailable))
			return
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "checks": checks})
	}
}
