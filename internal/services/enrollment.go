package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos"
	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// EnrollmentView pairs a course with the caller's enrollment; Enrollment is
// nil when the caller is not enrolled.
type EnrollmentView struct {
	Course     *domain.Course     `json:"courses"`
	Enrollment *domain.Enrollment `json:"enrollCourse"`
	Progress   int                `json:"progress"`
}

type EnrollResult struct {
	Enrollment      *domain.Enrollment
	AlreadyEnrolled bool
}

type EnrollmentService interface {
	Enroll(ctx context.Context, tx *gorm.DB, email, cid string) (*EnrollResult, error)
	Get(ctx context.Context, tx *gorm.DB, email, cid string) (*EnrollmentView, error)
	ListMine(ctx context.Context, tx *gorm.DB, email string) ([]EnrollmentView, error)
	SetCompleted(ctx context.Context, tx *gorm.DB, email, cid string, completed []int) (*EnrollmentView, error)
	ToggleChapter(ctx context.Context, tx *gorm.DB, email, cid string, index int, completed bool) (*EnrollmentView, error)
}

type enrollmentService struct {
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewEnrollmentService(baseLog *logger.Logger, courseRepo repos.CourseRepo, enrollmentRepo repos.EnrollmentRepo) EnrollmentService {
	return &enrollmentService{
		log:            baseLog.With("service", "EnrollmentService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (es *enrollmentService) Enroll(ctx context.Context, tx *gorm.DB, email, cid string) (*EnrollResult, error) {
	email, cid, err := es.args(email, cid)
	if err != nil {
		return nil, err
	}
	if _, err := es.course(ctx, tx, cid); err != nil {
		return nil, err
	}
	existing, err := es.enrollmentRepo.GetByUserAndCID(ctx, tx, email, cid)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if existing != nil {
		return &EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
	}

	enrollment := &domain.Enrollment{
		CID:               cid,
		UserEmail:         email,
		CompletedChapters: domain.NewChapterSet(nil),
	}
	if err := es.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
		if errors.Is(err, repos.ErrDuplicateEnrollment) {
			existing, getErr := es.enrollmentRepo.GetByUserAndCID(ctx, tx, email, cid)
			if getErr == nil && existing != nil {
				return &EnrollResult{Enrollment: existing, AlreadyEnrolled: true}, nil
			}
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	es.log.Info("User enrolled", "cid", cid, "user_email", email)
	return &EnrollResult{Enrollment: enrollment}, nil
}

func (es *enrollmentService) Get(ctx context.Context, tx *gorm.DB, email, cid string) (*EnrollmentView, error) {
	email, cid, err := es.args(email, cid)
	if err != nil {
		return nil, err
	}
	course, err := es.course(ctx, tx, cid)
	if err != nil {
		return nil, err
	}
	enrollment, err := es.enrollmentRepo.GetByUserAndCID(ctx, tx, email, cid)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	return newEnrollmentView(course, enrollment), nil
}

func (es *enrollmentService) ListMine(ctx context.Context, tx *gorm.DB, email string) ([]EnrollmentView, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrUnauthorized
	}
	enrollments, err := es.enrollmentRepo.ListByUserEmail(ctx, tx, email)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return []EnrollmentView{}, nil
	}

	cids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		cids = append(cids, e.CID)
	}
	courses, err := es.courseRepo.GetByCIDs(ctx, tx, cids)
	if err != nil {
		return nil, fmt.Errorf("load enrolled courses: %w", err)
	}
	byCID := make(map[string]*domain.Course, len(courses))
	for _, c := range courses {
		byCID[c.CID] = c
	}

	out := make([]EnrollmentView, 0, len(enrollments))
	for _, e := range enrollments {
		course, ok := byCID[e.CID]
		if !ok {
			continue
		}
		out = append(out, *newEnrollmentView(course, e))
	}
	return out, nil
}

func (es *enrollmentService) SetCompleted(ctx context.Context, tx *gorm.DB, email, cid string, completed []int) (*EnrollmentView, error) {
	email, cid, err := es.args(email, cid)
	if err != nil {
		return nil, err
	}
	course, enrollment, err := es.enrolled(ctx, tx, email, cid)
	if err != nil {
		return nil, err
	}
	if err := checkChapterRange(course, completed...); err != nil {
		return nil, err
	}
	return es.write(ctx, tx, course, enrollment, domain.NormalizeChapterSet(completed))
}

func (es *enrollmentService) ToggleChapter(ctx context.Context, tx *gorm.DB, email, cid string, index int, completed bool) (*EnrollmentView, error) {
	email, cid, err := es.args(email, cid)
	if err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: chapterIndex must be >= 0", ErrInvalidArgument)
	}
	course, enrollment, err := es.enrolled(ctx, tx, email, cid)
	if err != nil {
		return nil, err
	}
	if err := checkChapterRange(course, index); err != nil {
		return nil, err
	}
	return es.write(ctx, tx, course, enrollment, domain.ToggleChapter(enrollment.Completed(), index, completed))
}

func (es *enrollmentService) write(ctx context.Context, tx *gorm.DB, course *domain.Course, enrollment *domain.Enrollment, set []int) (*EnrollmentView, error) {
	if _, err := es.enrollmentRepo.UpdateCompletedChapters(ctx, tx, enrollment.UserEmail, enrollment.CID, set); err != nil {
		return nil, fmt.Errorf("update completed chapters: %w", err)
	}
	enrollment.CompletedChapters = domain.NewChapterSet(set)
	return newEnrollmentView(course, enrollment), nil
}

func (es *enrollmentService) args(email, cid string) (string, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", "", ErrUnauthorized
	}
	cid = strings.TrimSpace(cid)
	if cid == "" {
		return "", "", fmt.Errorf("%w: courseId is required", ErrInvalidArgument)
	}
	return email, cid, nil
}

func (es *enrollmentService) course(ctx context.Context, tx *gorm.DB, cid string) (*domain.Course, error) {
	course, err := es.courseRepo.GetByCID(ctx, tx, cid)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

func (es *enrollmentService) enrolled(ctx context.Context, tx *gorm.DB, email, cid string) (*domain.Course, *domain.Enrollment, error) {
	course, err := es.course(ctx, tx, cid)
	if err != nil {
		return nil, nil, err
	}
	enrollment, err := es.enrollmentRepo.GetByUserAndCID(ctx, tx, email, cid)
	if err != nil {
		return nil, nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, nil, ErrNotEnrolled
	}
	return course, enrollment, nil
}

// checkChapterRange rejects indexes past the layout. Courses without a layout accept any index.
func checkChapterRange(course *domain.Course, indexes ...int) error {
	n := len(course.Layout().Chapters())
	if n == 0 {
		return nil
	}
	for _, i := range indexes {
		if i >= n {
			return fmt.Errorf("%w: chapter index %d out of range (course has %d chapters)", ErrInvalidArgument, i, n)
		}
	}
	return nil
}

func newEnrollmentView(course *domain.Course, enrollment *domain.Enrollment) *EnrollmentView {
	view := &EnrollmentView{Course: course, Enrollment: enrollment}
	if enrollment != nil {
		view.Progress = domain.ProgressPercent(enrollment.Completed(), len(course.Layout().Chapters()))
	}
	return view
}
