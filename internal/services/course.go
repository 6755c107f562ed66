package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseService interface {
	ListPublic(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error)
	GetByCID(ctx context.Context, tx *gorm.DB, cid string) (*domain.Course, error)
	ListMine(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Course, error)
}

type courseService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
}

func NewCourseService(baseLog *logger.Logger, courseRepo repos.CourseRepo) CourseService {
	return &courseService{
		log:        baseLog.With("service", "CourseService"),
		courseRepo: courseRepo,
	}
}

func (cs *courseService) ListPublic(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error) {
	courses, err := cs.courseRepo.ListWithContent(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("list public courses: %w", err)
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return courses, nil
}

func (cs *courseService) GetByCID(ctx context.Context, tx *gorm.DB, cid string) (*domain.Course, error) {
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return nil, fmt.Errorf("%w: courseId is required", ErrInvalidArgument)
	}
	course, err := cs.courseRepo.GetByCID(ctx, tx, cid)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

func (cs *courseService) ListMine(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Course, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUnauthorized
	}
	courses, err := cs.courseRepo.ListByUserEmail(ctx, tx, email)
	if err != nil {
		return nil, fmt.Errorf("list user courses: %w", err)
	}
	if courses == nil {
		courses = []*domain.Course{}
	}
	return courses, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
