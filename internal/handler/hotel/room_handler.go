// Package hotel 提供房间、客人与预订相关的 HTTP Handler
package hotel

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	hotelService "github.com/dumeirei/hotel-frontdesk/internal/service/hotel"
)

// RoomHandler 房间处理器
type RoomHandler struct {
	roomService *hotelService.RoomService
}

// NewRoomHandler 创建房间处理器
func NewRoomHandler(roomSvc *hotelService.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomSvc,
	}
}

// List 获取房间列表
// @Summary 获取房间列表
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param status query string false "状态 available/occupied/cleaning/maintenance"
// @Param type query string false "房型"
// @Param number query string false "房间号"
// @Param min_price query number false "最低价格"
// @Param max_price query number false "最高价格"
// @Success 200 {object} response.Response{data=response.PageData{list=[]hotelService.RoomInfo}}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) List(c *gin.Context) {
	p := handler.BindPagination(c)

	filters := make(map[string]interface{})
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if roomType := c.Query("type"); roomType != "" {
		filters["type"] = roomType
	}
	if number := c.Query("number"); number != "" {
		filters["number"] = number
	}
	for _, key := range []string{"min_price", "max_price"} {
		if v := c.Query(key); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				response.BadRequest(c, "价格参数错误")
				return
			}
			filters[key] = price
		}
	}

	list, total, err := h.roomService.ListRooms(c.Request.Context(), p.GetOffset(), p.GetLimit(), filters)
	handler.MustSucceedPage(c, err, list, total, p)
}

// ListAvailable 获取可预订房间
// @Summary 获取可预订房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=[]hotelService.RoomInfo}
// @Router /api/v1/rooms/available [get]
func (h *RoomHandler) ListAvailable(c *gin.Context) {
	list, err := h.roomService.ListAvailableRooms(c.Request.Context())
	handler.MustSucceed(c, err, list)
}

// Get 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), id)
	handler.MustSucceed(c, err, room)
}

// Create 创建房间
// @Summary 创建房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "房间已创建", room)
}

// Update 更新房间
// @Summary 更新房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body hotelService.UpdateRoomRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), id, &req)
	handler.MustSucceed(c, err, room)
}

// ChangeStatus 修改房间状态
// @Summary 修改房间状态
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Param request body hotelService.ChangeStatusRequest true "请求参数"
// @Success 200 {object} response.Response{data=hotelService.RoomInfo}
// @Router /api/v1/rooms/{id}/status [put]
func (h *RoomHandler) ChangeStatus(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	var req hotelService.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.ChangeStatus(c.Request.Context(), id, req.Status)
	handler.MustSucceed(c, err, room)
}

// Delete 删除房间
// @Summary 删除房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param id path int true "房间ID"
// @Success 200 {object} response.Response
// @Router /api/v1/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "房间")
	if !ok {
		return
	}

	err := h.roomService.DeleteRoom(c.Request.Context(), id)
	handler.MustSucceedWithMessage(c, err, "房间已删除", nil)
}
