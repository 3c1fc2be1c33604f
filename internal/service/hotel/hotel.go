// Package hotel 提供前台业务服务：房间、客人与预订生命周期
package hotel

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/cache"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
)

// invalidateDashboardStats 清除看板统计缓存，失败只记录日志
func invalidateDashboardStats(ctx context.Context) {
	if !cache.Enabled() {
		return
	}
	if err := cache.Delete(ctx, cache.KeyDashboardStats); err != nil {
		logger.Warn("清除看板统计缓存失败", logger.Module("hotel"), logger.Err(err))
	}
}

// isNotFound 判断是否为记录不存在
func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// dbError 已是业务错误的原样返回，其余包装为数据库错误
func dbError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.ErrDatabaseError.WithError(err)
}
