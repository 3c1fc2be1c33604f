package hotel

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/common/tracing"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

// RoomService 房间服务
type RoomService struct {
	db              *gorm.DB
	roomRepo        *repository.RoomRepository
	reservationRepo *repository.ReservationRepository
}

// NewRoomService 创建房间服务
func NewRoomService(db *gorm.DB, roomRepo *repository.RoomRepository, reservationRepo *repository.ReservationRepository) *RoomService {
	return &RoomService{
		db:              db,
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	Number string  `json:"number" binding:"required"`
	Type   string  `json:"type" binding:"required"`
	Price  float64 `json:"price" binding:"required"`
	Status string  `json:"status"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	Number string  `json:"number" binding:"required"`
	Type   string  `json:"type" binding:"required"`
	Price  float64 `json:"price" binding:"required"`
}

// ChangeStatusRequest 修改房间状态请求
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RoomInfo 房间信息
type RoomInfo struct {
	*models.Room
	StatusName string `json:"status_name"`
}

func validateRoomFields(number, roomType string, price float64) error {
	if number == "" {
		return errors.ErrInvalidParams.WithMessage("房间号不能为空")
	}
	if roomType == "" {
		return errors.ErrInvalidParams.WithMessage("房型不能为空")
	}
	if price <= 0 {
		return errors.ErrInvalidParams.WithMessage("房价必须大于0")
	}
	return nil
}

// CreateRoom 创建房间
func (s *RoomService) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomInfo, error) {
	number := strings.TrimSpace(req.Number)
	roomType := strings.TrimSpace(req.Type)
	if err := validateRoomFields(number, roomType, req.Price); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.RoomStatusAvailable
	}
	if !models.IsValidRoomStatus(status) {
		return nil, errors.ErrInvalidRoomStatus
	}

	exists, err := s.roomRepo.ExistsByNumber(ctx, number, 0)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomNumberExists
	}

	room := &models.Room{
		Number: number,
		Type:   roomType,
		Price:  utils.RoundMoney(req.Price),
		Status: status,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("房间已创建", logger.Module("room"), logger.Action("create"), logger.RoomID(room.ID), logger.String("number", room.Number))
	invalidateDashboardStats(ctx)
	return toRoomInfo(room), nil
}

// UpdateRoom 更新房间基本信息，状态通过 ChangeStatus 修改
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, req *UpdateRoomRequest) (*RoomInfo, error) {
	number := strings.TrimSpace(req.Number)
	roomType := strings.TrimSpace(req.Type)
	if err := validateRoomFields(number, roomType, req.Price); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	exists, err := s.roomRepo.ExistsByNumber(ctx, number, id)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrRoomNumberExists
	}

	room.Number = number
	room.Type = roomType
	room.Price = utils.RoundMoney(req.Price)
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("房间已更新", logger.Module("room"), logger.Action("update"), logger.RoomID(room.ID))
	return toRoomInfo(room), nil
}

// DeleteRoom 删除房间，存在预订记录时拒绝
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomRepo := s.roomRepo.WithTx(tx)
		if _, err := roomRepo.GetByID(ctx, id); err != nil {
			if isNotFound(err) {
				return errors.ErrRoomNotFound
			}
			return err
		}

		count, err := s.reservationRepo.WithTx(tx).CountByRoom(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.ErrRoomHasReservations
		}

		return roomRepo.Delete(ctx, id)
	})
	if err != nil {
		return dbError(err)
	}

	logger.Info("房间已删除", logger.Module("room"), logger.Action("delete"), logger.RoomID(id))
	invalidateDashboardStats(ctx)
	return nil
}

// GetRoom 获取房间
func (s *RoomService) GetRoom(ctx context.Context, id int64) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrRoomNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return toRoomInfo(room), nil
}

// ListRooms 获取房间列表
// filters 支持 status、type、number、min_price、max_price
func (s *RoomService) ListRooms(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*RoomInfo, int64, error) {
	if status, ok := filters["status"].(string); ok && status != "" && !models.IsValidRoomStatus(status) {
		return nil, 0, errors.ErrInvalidRoomStatus
	}

	rooms, total, err := s.roomRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*RoomInfo, len(rooms))
	for i, room := range rooms {
		list[i] = toRoomInfo(room)
	}
	return list, total, nil
}

// ListAvailableRooms 获取可预订房间
func (s *RoomService) ListAvailableRooms(ctx context.Context) ([]*RoomInfo, error) {
	rooms, err := s.roomRepo.ListAvailable(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*RoomInfo, len(rooms))
	for i, room := range rooms {
		list[i] = toRoomInfo(room)
	}
	return list, nil
}

// ChangeStatus 直接修改房间状态，不检查预订情况（用于维修、清洁完成等人工操作）
func (s *RoomService) ChangeStatus(ctx context.Context, id int64, status string) (*RoomInfo, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "room.change_status",
		tracing.WithRoomID(id), tracing.WithRoomStatus(status))
	defer span.End()

	if !models.IsValidRoomStatus(status) {
		return nil, errors.ErrInvalidRoomStatus
	}

	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrRoomNotFound
		}
		tracing.SetError(ctx, err)
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	previous := room.Status
	if err := s.roomRepo.UpdateStatus(ctx, id, status); err != nil {
		tracing.SetError(ctx, err)
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	room.Status = status

	logger.Info("房间状态已修改",
		logger.Module("room"),
		logger.Action("change_status"),
		logger.RoomID(id),
		logger.String("from", previous),
		logger.Status(status),
	)
	metrics.GetMetrics().RecordRoomStatusChange(status)
	invalidateDashboardStats(ctx)
	return toRoomInfo(room), nil
}

func toRoomInfo(room *models.Room) *RoomInfo {
	return &RoomInfo{
		Room:       room,
		StatusName: RoomStatusName(room.Status),
	}
}

// RoomStatusName 房间状态名称
func RoomStatusName(status string) string {
	switch status {
	case models.RoomStatusAvailable:
		return "空闲"
	case models.RoomStatusOccupied:
		return "入住中"
	case models.RoomStatusCleaning:
		return "清洁中"
	case models.RoomStatusMaintenance:
		return "维修中"
	default:
		return "未知"
	}
}
