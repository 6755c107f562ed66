package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursegen-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Course{},
		&domain.Enrollment{},
	)
}
