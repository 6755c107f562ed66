package app

import (
	"fmt"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
	"github.com/yungbote/coursegen-backend/internal/realtime"
	"github.com/yungbote/coursegen-backend/internal/services"
)

type Services struct {
	Course     services.CourseService
	Enrollment services.EnrollmentService
	Banner     services.BannerService
	Generation services.CourseGenerationService
}

// wireServices builds the domain services. events is the hub itself when
// no bus is configured, otherwise the bus (the hub then forwards from it).
func wireServices(log *logger.Logger, cfg Config, reposet repos.Repos, clients Clients, events realtime.Publisher) (Services, error) {
	log.Info("Wiring services...")

	banner, err := services.NewBannerService(log, clients.Images, clients.Banners.Store, services.BannerOptions{
		FallbackEnabled: cfg.Storage.FallbackEnabled,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init banner service: %w", err)
	}

	policy, err := services.ParseFailurePolicy(cfg.Content.FailurePolicy)
	if err != nil {
		return Services{}, err
	}
	generation, err := services.NewCourseGenerationService(
		log,
		reposet.Course,
		clients.LLM,
		clients.Videos,
		banner,
		events,
		services.GenerationOptions{
			MaxParallel:     cfg.Content.MaxParallel,
			FailurePolicy:   policy,
			CourseLimit:     cfg.Content.CourseLimit,
			VideoMaxResults: cfg.YouTube.MaxResults,
			VideosAlways:    cfg.YouTube.Always,
		},
	)
	if err != nil {
		return Services{}, fmt.Errorf("init course generation service: %w", err)
	}

	return Services{
		Course:     services.NewCourseService(log, reposet.Course),
		Enrollment: services.NewEnrollmentService(log, reposet.Course, reposet.Enrollment),
		Banner:     banner,
		Generation: generation,
	}, nil
}
