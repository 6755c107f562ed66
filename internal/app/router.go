package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursegen-backend/internal/http"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, mediaDir string) (*gin.Engine, error) {
	tracing := ""
	if cfg.Otel.Enabled {
		tracing = cfg.Otel.ServiceName
	}
	return http.NewRouter(http.RouterConfig{
		Log:               log,
		AuthMiddleware:    middleware.Auth,
		CORSOrigins:       cfg.HTTP.CORSAllowedOrigins,
		EnableMetrics:     cfg.HTTP.MetricsEnabled,
		TracingService:    tracing,
		MediaDir:          mediaDir,
		HealthHandler:     handlers.Health,
		CourseHandler:     handlers.Course,
		GenerationHandler: handlers.Generation,
		EnrollmentHandler: handlers.Enrollment,
		RealtimeHandler:   handlers.Realtime,
		PageHandler:       handlers.Pages,
	})
}
