package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelhub/reelhub/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, deps Dependencies) {
	health := handlers.Health(deps.DB, deps.HealthChecks)
	r.GET("/health", health)
	r.GET("/api/health", health)
}

func registerMetricsRoutes(r *gin.Engine, deps Dependencies) {
	if !deps.MetricsEnabled {
		return
	}
	path := deps.MetricsPath
	if path == "" {
		path = "/metrics"
	}
	r.GET(path, gin.WrapH(promhttp.Handler()))
}
