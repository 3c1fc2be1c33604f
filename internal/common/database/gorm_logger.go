package database

import (
	"time"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
	applogger "github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// zapWriter 把 gorm 日志输出到 zap
type zapWriter struct {
	sugar *zap.SugaredLogger
}

// Printf 实现 logger.Writer
func (w zapWriter) Printf(format string, args ...interface{}) {
	w.sugar.Infof(format, args...)
}

// newGormLogger 创建基于 zap 的 GORM 日志
func newGormLogger(cfg *config.DatabaseConfig) logger.Interface {
	return logger.New(
		zapWriter{sugar: applogger.GetSugar().Named("gorm")},
		logger.Config{
			SlowThreshold:             time.Duration(cfg.SlowThreshold) * time.Millisecond,
			LogLevel:                  getLogLevel(cfg.LogMode),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
