package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/data/repos/learning"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type CourseRepo = learning.CourseRepo
type EnrollmentRepo = learning.EnrollmentRepo

var (
	ErrDuplicateCourse     = learning.ErrDuplicateCourse
	ErrDuplicateEnrollment = learning.ErrDuplicateEnrollment
)

type Repos struct {
	Course     CourseRepo
	Enrollment EnrollmentRepo
}

func New(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		Course:     learning.NewCourseRepo(db, log),
		Enrollment: learning.NewEnrollmentRepo(db, log),
	}
}
