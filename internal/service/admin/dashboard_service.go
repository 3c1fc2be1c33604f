package admin

import (
	"context"
	"time"

	"github.com/dumeirei/hotel-frontdesk/internal/common/cache"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

const statsCacheName = "dashboard_stats"

// DashboardService 前台看板服务
type DashboardService struct {
	roomRepo        *repository.RoomRepository
	employeeRepo    *repository.EmployeeRepository
	guestRepo       *repository.GuestRepository
	reservationRepo *repository.ReservationRepository
	cacheTTL        time.Duration
}

// NewDashboardService 创建看板服务，cacheTTL 为 0 时不缓存
func NewDashboardService(
	roomRepo *repository.RoomRepository,
	employeeRepo *repository.EmployeeRepository,
	guestRepo *repository.GuestRepository,
	reservationRepo *repository.ReservationRepository,
	cacheTTL time.Duration,
) *DashboardService {
	return &DashboardService{
		roomRepo:        roomRepo,
		employeeRepo:    employeeRepo,
		guestRepo:       guestRepo,
		reservationRepo: reservationRepo,
		cacheTTL:        cacheTTL,
	}
}

// Stats 看板统计
type Stats struct {
	Rooms              int64 `json:"rooms"`
	Available          int64 `json:"available"`
	Occupied           int64 `json:"occupied"`
	Cleaning           int64 `json:"cleaning"`
	Maintenance        int64 `json:"maintenance"`
	Employees          int64 `json:"employees"`
	ActiveReservations int64 `json:"active_reservations"`
	Guests             int64 `json:"guests"`
}

// GetStats 获取看板统计，Redis 可用时优先读缓存
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	useCache := cache.Enabled() && s.cacheTTL > 0
	m := metrics.GetMetrics()

	if useCache {
		var cached Stats
		err := cache.Get(ctx, cache.KeyDashboardStats, &cached)
		if err == nil {
			m.RecordCacheHit(statsCacheName)
			return &cached, nil
		}
		if !cache.IsMiss(err) {
			logger.Warn("读取看板统计缓存失败", logger.Module("dashboard"), logger.Err(err))
		}
		m.RecordCacheMiss(statsCacheName)
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if useCache {
		if err := cache.Set(ctx, cache.KeyDashboardStats, stats, s.cacheTTL); err != nil {
			logger.Warn("写入看板统计缓存失败", logger.Module("dashboard"), logger.Err(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) compute(ctx context.Context) (*Stats, error) {
	byStatus, err := s.roomRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	metrics.GetMetrics().SetRoomsByStatus(byStatus)

	stats := &Stats{
		Available:   byStatus[models.RoomStatusAvailable],
		Occupied:    byStatus[models.RoomStatusOccupied],
		Cleaning:    byStatus[models.RoomStatusCleaning],
		Maintenance: byStatus[models.RoomStatusMaintenance],
	}
	for _, n := range byStatus {
		stats.Rooms += n
	}

	if stats.Employees, err = s.employeeRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Guests, err = s.guestRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveReservations, err = s.reservationRepo.CountByStatus(ctx, models.ReservationStatusActive); err != nil {
		return nil, err
	}
	return stats, nil
}

// RefreshRoomGauges 刷新各状态房间数指标
func (s *DashboardService) RefreshRoomGauges(ctx context.Context) error {
	byStatus, err := s.roomRepo.CountByStatus(ctx)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	metrics.GetMetrics().SetRoomsByStatus(byStatus)
	return nil
}
