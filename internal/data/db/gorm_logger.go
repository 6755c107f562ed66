package db

import (
	"fmt"
	"strings"
	"time"

	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

type zapWriter struct {
	log *logger.Logger
}

func (w zapWriter) Printf(format string, args ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, args...))
	w.log.Warn("gorm", "detail", msg)
}

// NewGormLogger routes gorm's slow-query and error output through the app logger.
func NewGormLogger(log *logger.Logger, level gormLogger.LogLevel) gormLogger.Interface {
	return gormLogger.New(zapWriter{log: log}, gormLogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
