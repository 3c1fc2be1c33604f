package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	adminService "github.com/dumeirei/hotel-frontdesk/internal/service/admin"
)

// DashboardHandler 看板处理器
type DashboardHandler struct {
	dashboardService *adminService.DashboardService
}

// NewDashboardHandler 创建看板处理器
func NewDashboardHandler(dashboardSvc *adminService.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardSvc,
	}
}

// GetStats 获取看板统计
// @Summary 获取看板统计
// @Tags 看板
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=adminService.Stats}
// @Router /api/v1/admin/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}
