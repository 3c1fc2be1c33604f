package main

import (
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
	"github.com/dumeirei/hotel-frontdesk/internal/scheduler"
	adminService "github.com/dumeirei/hotel-frontdesk/internal/service/admin"
)

// newScheduler 创建后台定时任务调度器
func newScheduler(cfg *config.Config, db *gorm.DB) *scheduler.Scheduler {
	fd := &cfg.Business.FrontDesk
	reservationRepo := repository.NewReservationRepository(db)
	dashboardSvc := adminService.NewDashboardService(
		repository.NewRoomRepository(db),
		repository.NewEmployeeRepository(db),
		repository.NewGuestRepository(db),
		reservationRepo,
		0,
	)

	s := scheduler.NewScheduler()
	scheduler.SetupTasks(s, scheduler.NewTaskHandler(reservationRepo, dashboardSvc),
		fd.GaugeRefreshDuration(), fd.OverdueScanDuration())
	return s
}
