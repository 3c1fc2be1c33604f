package scheduler

import (
	"context"
	"time"

	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
	adminService "github.com/dumeirei/hotel-frontdesk/internal/service/admin"
)

// 单次扫描的超期预订上限
const overdueScanLimit = 200

// TaskHandler 任务处理器
type TaskHandler struct {
	reservationRepo  *repository.ReservationRepository
	dashboardService *adminService.DashboardService
	now              func() time.Time
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(
	reservationRepo *repository.ReservationRepository,
	dashboardSvc *adminService.DashboardService,
) *TaskHandler {
	return &TaskHandler{
		reservationRepo:  reservationRepo,
		dashboardService: dashboardSvc,
		now:              time.Now,
	}
}

// RefreshRoomGauges 刷新房态指标
func (h *TaskHandler) RefreshRoomGauges(ctx context.Context) error {
	return h.dashboardService.RefreshRoomGauges(ctx)
}

// ReportOverdueReservations 统计退房日已过仍未退房的预订
// 只记录日志与指标，不修改预订状态
func (h *TaskHandler) ReportOverdueReservations(ctx context.Context) error {
	today := utils.StartOfDay(h.now())

	reservations, err := h.reservationRepo.ListOverdue(ctx, today, overdueScanLimit)
	if err != nil {
		return err
	}
	metrics.GetMetrics().SetOverdueReservations(len(reservations))

	for _, r := range reservations {
		fields := []interface{}{
			"reservation_no", r.ReservationNo,
			"check_out", utils.FormatDate(time.Time(r.CheckOut)),
		}
		if r.Room != nil {
			fields = append(fields, "room", r.Room.Number)
		}
		logger.WithFields(fields...).Warn("预订已超过退房日期")
	}
	return nil
}

// SetupTasks 设置所有任务
func SetupTasks(s *Scheduler, handler *TaskHandler, gaugeInterval, overdueInterval time.Duration) {
	s.AddTask("RefreshRoomGauges", gaugeInterval, handler.RefreshRoomGauges)
	s.AddTask("ReportOverdueReservations", overdueInterval, handler.ReportOverdueReservations)
}
