package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/seoaudit/api/handler"
	"github.com/use-agent/seoaudit/api/middleware"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/report"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestLogger
//	API:     Auth (if enabled)
//
// Health stays outside auth so monitoring probes always work.
func NewRouter(a *audit.Auditor, rd *report.Renderer, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		if len(cfg.Auth.APIKeys) == 0 {
			slog.Warn("auth enabled but no API keys configured, audit endpoint is open")
		}
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.POST("/audit", handler.Audit(a, rd))

	return r
}
