package hotel

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	hotelService "github.com/dumeirei/hotel-frontdesk/internal/service/hotel"
)

// ReservationHandler 预订处理器
type ReservationHandler struct {
	reservationService *hotelService.ReservationService
}

// NewReservationHandler 创建预订处理器
func NewReservationHandler(reservationSvc *hotelService.ReservationService) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationSvc,
	}
}

// List 获取预订列表
// @Summary 获取预订列表
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param keyword query string false "客人姓名或房间号"
// @Param status query string false "状态 active/finalized/cancelled"
// @Param guest_id query int false "客人ID"
// @Param room_id query int false "房间ID"
// @Success 200 {object} response.Response{data=response.PageData{list=[]hotelService.ReservationInfo}}
// @Router /api/v1/reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if keyword := c.Query("keyword"); keyword != "" {
		filters["keyword"] = keyword
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	guestID, ok := handler.ParseQueryID(c, "guest_id", "客人")
	if !ok {
		return
	}
	if guestID != nil {
		filters["guest_id"] = *guestID
	}
	roomID, ok := handler.ParseQueryID(c, "room_id", "房间")
	if !ok {
		return
	}
	if roomID != nil {
		filters["room_id"] = *roomID
	}

	list, total, err := h.reservationService.ListReservations(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, list, total, p)
}

// Get 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.ReservationInfo}
// @Router /api/v1/reservations/{id} [get]
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), id)
	handler.MustSucceed(c, err, reservation)
}

// Create 创建预订
// @Summary 创建预订
// @Description 指定 guest_id 或填写 guest 信息，房间必须为空闲状态
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateReservationRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.ReservationInfo}
// @Router /api/v1/reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req hotelService.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "预订已创建", reservation)
}

// Checkout 退房
// @Summary 退房
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.ReservationInfo}
// @Router /api/v1/reservations/{id}/checkout [post]
func (h *ReservationHandler) Checkout(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Checkout(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "退房成功", reservation)
}

// Cancel 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response{data=hotelService.ReservationInfo}
// @Router /api/v1/reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	reservation, err := h.reservationService.Cancel(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "预订已取消", reservation)
}

// Delete 删除预订
// @Summary 删除预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {object} response.Response
// @Router /api/v1/reservations/{id} [delete]
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	err := h.reservationService.Delete(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "预订已删除", nil)
}

// QRCode 获取预订确认单二维码
// @Summary 获取预订确认单二维码
// @Tags 预订
// @Produce png
// @Security Bearer
// @Param id path int true "预订ID"
// @Success 200 {file} binary
// @Router /api/v1/reservations/{id}/qrcode [get]
func (h *ReservationHandler) QRCode(c *gin.Context) {
	id, ok := handler.ParseID(c, "预订")
	if !ok {
		return
	}

	png, err := h.reservationService.ConfirmationQRCode(c.Request.Context(), id)
	if handler.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", "inline; filename=reserva-"+strconv.FormatInt(id, 10)+".png")
	c.Data(http.StatusOK, "image/png", png)
}
