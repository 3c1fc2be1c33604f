package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	hotelService "github.com/dumeirei/hotel-frontdesk/internal/service/hotel"
)

// GuestHandler 客人处理器
type GuestHandler struct {
	guestService *hotelService.GuestService
}

// NewGuestHandler 创建客人处理器
func NewGuestHandler(guestSvc *hotelService.GuestService) *GuestHandler {
	return &GuestHandler{
		guestService: guestSvc,
	}
}

// List 获取客人列表
// @Summary 获取客人列表
// @Tags 客人
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "姓名、电话或邮箱"
// @Success 200 {object} response.Response{data=response.PageData{list=[]models.Guest}}
// @Router /api/v1/guests [get]
func (h *GuestHandler) List(c *gin.Context) {
	p := handler.BindPagination(c)

	list, total, err := h.guestService.ListGuests(c.Request.Context(), p.GetOffset(), p.GetLimit(), c.Query("keyword"))
	handler.MustSucceedPage(c, err, list, total, p)
}

// Lookup 按联系方式查找客人
// @Summary 按联系方式查找客人
// @Tags 客人
// @Produce json
// @Security Bearer
// @Param contact query string true "电话、邮箱或用户名"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests/lookup [get]
func (h *GuestHandler) Lookup(c *gin.Context) {
	guest, err := h.guestService.LookupByContact(c.Request.Context(), c.Query("contact"))
	handler.MustSucceed(c, err, guest)
}

// Get 获取客人详情
// @Summary 获取客人详情
// @Tags 客人
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests/{id} [get]
func (h *GuestHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	guest, err := h.guestService.GetGuest(c.Request.Context(), id)
	handler.MustSucceed(c, err, guest)
}

// Create 登记客人
// @Summary 登记客人
// @Tags 客人
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.GuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests [post]
func (h *GuestHandler) Create(c *gin.Context) {
	var req hotelService.GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.guestService.CreateGuest(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "客人已登记", guest)
}

// Update 更新客人
// @Summary 更新客人
// @Tags 客人
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Param request body hotelService.GuestRequest true "请求参数"
// @Success 200 {object} response.Response{data=models.Guest}
// @Router /api/v1/guests/{id} [put]
func (h *GuestHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	var req hotelService.GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	guest, err := h.guestService.UpdateGuest(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, guest)
}

// Delete 删除客人
// @Summary 删除客人
// @Tags 客人
// @Produce json
// @Security Bearer
// @Param id path int true "客人ID"
// @Success 200 {object} response.Response
// @Router /api/v1/guests/{id} [delete]
func (h *GuestHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "客人")
	if !ok {
		return
	}

	err := h.guestService.DeleteGuest(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "客人已删除", nil)
}
