package http

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursegen-backend/internal/http/middleware"
	"github.com/yungbote/coursegen-backend/internal/http/web"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	CORSOrigins    []string

	// EnableMetrics mounts the request metrics middleware and /metrics.
	EnableMetrics bool
	// TracingService names the otelgin spans; empty disables the middleware.
	TracingService string
	// MediaDir serves locally stored banners under /media.
	MediaDir string

	HealthHandler     *httpH.HealthHandler
	CourseHandler     *httpH.CourseHandler
	GenerationHandler *httpH.GenerationHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	RealtimeHandler   *httpH.RealtimeHandler
	PageHandler       *httpH.PageHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.AuthMiddleware == nil {
		return nil, fmt.Errorf("auth middleware required")
	}
	log := cfg.Log
	if log == nil {
		log = logger.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if svc := strings.TrimSpace(cfg.TracingService); svc != "" {
		r.Use(otelgin.Middleware(svc))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.EnableMetrics {
		httpMW.Prometheus(r)
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	// Assets
	r.StaticFS("/static", web.Static())
	if dir := strings.TrimSpace(cfg.MediaDir); dir != "" {
		r.Static("/media", dir)
	}

	optional := cfg.AuthMiddleware.OptionalAuth()
	required := cfg.AuthMiddleware.RequireAuth()

	// Pages
	if cfg.PageHandler != nil {
		pages := r.Group("/", optional)
		pages.GET("/", cfg.PageHandler.Index)
		pages.GET("/workspace", cfg.PageHandler.Workspace)
		pages.GET("/workspace/edit-course/:courseId", cfg.PageHandler.EditCourse)
		pages.GET("/course/:courseId", cfg.PageHandler.Course)
		r.NoRoute(cfg.PageHandler.NotFound)
	}

	api := r.Group("/api")

	// Courses: listing without a courseId enforces auth inside the service.
	if cfg.CourseHandler != nil {
		api.GET("/courses", optional, cfg.CourseHandler.GetCourses)
	}

	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		api.GET("/events", optional, cfg.RealtimeHandler.Stream)
	}

	protected := api.Group("/", required)
	{
		if cfg.GenerationHandler != nil {
			protected.POST("/generate-course-layout", cfg.GenerationHandler.GenerateLayout)
			protected.POST("/generate-course-content", cfg.GenerationHandler.GenerateContent)
		}

		if cfg.EnrollmentHandler != nil {
			protected.GET("/enroll-course", cfg.EnrollmentHandler.Get)
			protected.POST("/enroll-course", cfg.EnrollmentHandler.Enroll)
			protected.PUT("/enroll-course", cfg.EnrollmentHandler.SetCompleted)
			protected.POST("/enroll-course/progress", cfg.EnrollmentHandler.ToggleChapter)
		}
	}

	return r, nil
}
