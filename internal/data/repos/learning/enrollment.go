package learning

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

var ErrDuplicateEnrollment = errors.New("already enrolled")

type EnrollmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) error
	GetByUserAndCID(ctx context.Context, tx *gorm.DB, email, cid string) (*domain.Enrollment, error)
	ListByUserEmail(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Enrollment, error)
	UpdateCompletedChapters(ctx context.Context, tx *gorm.DB, email, cid string, completed []int) (int64, error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	repoLog := baseLog.With("repo", "EnrollmentRepo")
	return &enrollmentRepo{db: db, log: repoLog}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *domain.Enrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollment == nil {
		return errors.New("enrollment required")
	}
	enrollment.CompletedChapters = domain.NewChapterSet(enrollment.CompletedChapters.Data())
	if err := transaction.WithContext(ctx).Create(enrollment).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEnrollment
		}
		return err
	}
	return nil
}

func (r *enrollmentRepo) GetByUserAndCID(ctx context.Context, tx *gorm.DB, email, cid string) (*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
	if err := transaction.WithContext(ctx).
		Where("user_email = ? AND cid = ?", email, cid).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *enrollmentRepo) ListByUserEmail(ctx context.Context, tx *gorm.DB, email string) ([]*domain.Enrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*domain.Enrollment
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

func (r *enrollmentRepo) UpdateCompletedChapters(ctx context.Context, tx *gorm.DB, email, cid string, completed []int) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Model(&domain.Enrollment{}).
		Where("user_email = ? AND cid = ?", email, cid).
		Update("completed_chapters", domain.NewChapterSet(completed))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
