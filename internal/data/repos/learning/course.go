package learning

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

var ErrDuplicateCourse = errors.New("course id already exists")

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, course *domain.Course) error
	GetByCID(ctx context.Context, tx *gorm.DB, cid string) (*domain.Course, error)
	GetByCIDs(ctx context.Context, tx *gorm.DB, cids []string) ([]*domain.Course, error)
	ListWithContent(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error)
	ListByUserEmail(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Course, error)
	CountByUserEmail(ctx context.Context, tx *gorm.DB, email string) (int64, error)
	UpdateContent(ctx context.Context, tx *gorm.DB, cid string, content []domain.ChapterContent) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	repoLog := baseLog.With("repo", "CourseRepo")
	return &courseRepo{db: db, log: repoLog}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, course *domain.Course) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if course == nil {
		return errors.New("course required")
	}
	if course.CourseContent.Data() == nil {
		course.CourseContent = domain.NewContent(nil)
	}
	if err := transaction.WithContext(ctx).Create(course).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCourse
		}
		return err
	}
	return nil
}

func (r *courseRepo) GetByCID(ctx context.Context, tx *gorm.DB, cid string) (*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if err := transaction.WithContext(ctx).
		Where("cid = ?", cid).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *courseRepo) GetByCIDs(ctx context.Context, tx *gorm.DB, cids []string) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if len(cids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("cid IN ?", cids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListWithContent returns courses whose content has been generated, newest first.
func (r *courseRepo) ListWithContent(ctx context.Context, tx *gorm.DB) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if err := transaction.WithContext(ctx).
		Where("course_content IS NOT NULL").
		Where("CAST(course_content AS TEXT) NOT IN ?", []string{"", "[]", "{}", "null"}).
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) ListByUserEmail(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Course, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Course
	if email == "" {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_email = ?", email).
		Order("id DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *courseRepo) CountByUserEmail(ctx context.Context, tx *gorm.DB, email string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var n int64
	if err := transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("user_email = ?", email).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// UpdateContent replaces course_content wholesale. Concurrent writers race; the last one wins.
func (r *courseRepo) UpdateContent(ctx context.Context, tx *gorm.DB, cid string, content []domain.ChapterContent) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Course{}).
		Where("cid = ?", cid).
		Update("course_content", domain.NewContent(content))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
