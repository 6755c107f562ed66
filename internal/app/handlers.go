package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/coursegen-backend/internal/http/handlers"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Course     *httpH.CourseHandler
	Generation *httpH.GenerationHandler
	Enrollment *httpH.EnrollmentHandler
	Realtime   *httpH.RealtimeHandler
	Pages      *httpH.PageHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Course:     httpH.NewCourseHandler(log, services.Course),
		Generation: httpH.NewGenerationHandler(log, services.Generation),
		Enrollment: httpH.NewEnrollmentHandler(log, services.Enrollment),
		Realtime:   httpH.NewRealtimeHandler(log, hub),
		Pages:      httpH.NewPageHandler(log, services.Course, services.Enrollment),
	}
}
