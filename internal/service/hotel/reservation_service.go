package hotel

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/common/qrcode"
	"github.com/dumeirei/hotel-frontdesk/internal/common/tracing"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

// ReservationNoPrefix 预订号前缀
const ReservationNoPrefix = "R"

// ReservationService 预订服务
type ReservationService struct {
	db              *gorm.DB
	reservationRepo *repository.ReservationRepository
	roomRepo        *repository.RoomRepository
	guestRepo       *repository.GuestRepository
	qrGenerator     *qrcode.Generator
}

// NewReservationService 创建预订服务
func NewReservationService(
	db *gorm.DB,
	reservationRepo *repository.ReservationRepository,
	roomRepo *repository.RoomRepository,
	guestRepo *repository.GuestRepository,
) *ReservationService {
	return &ReservationService{
		db:              db,
		reservationRepo: reservationRepo,
		roomRepo:        roomRepo,
		guestRepo:       guestRepo,
		qrGenerator:     qrcode.NewGenerator(qrcode.DefaultSize),
	}
}

// GuestInput 预订时登记的客人信息
type GuestInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// CreateReservationRequest 创建预订请求
// GuestID 与 Guest 二选一，都提供时以 GuestID 为准
type CreateReservationRequest struct {
	GuestID  int64       `json:"guest_id"`
	Guest    *GuestInput `json:"guest"`
	RoomID   int64       `json:"room_id" binding:"required"`
	CheckIn  string      `json:"check_in" binding:"required"`
	CheckOut string      `json:"check_out" binding:"required"`
}

// ReservationInfo 预订信息
type ReservationInfo struct {
	ID            int64      `json:"id"`
	ReservationNo string     `json:"reservation_no"`
	GuestID       int64      `json:"guest_id"`
	GuestName     string     `json:"guest_name"`
	RoomID        int64      `json:"room_id"`
	RoomNumber    string     `json:"room_number"`
	RoomType      string     `json:"room_type"`
	CheckIn       string     `json:"check_in"`
	CheckOut      string     `json:"check_out"`
	Nights        int        `json:"nights"`
	Total         float64    `json:"total"`
	Status        string     `json:"status"`
	StatusName    string     `json:"status_name"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateReservation 创建预订
// 在同一事务内写入预订并把房间置为入住中，房间已被占用时整体回滚
func (s *ReservationService) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*ReservationInfo, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "reservation.create",
		tracing.WithRoomID(req.RoomID), tracing.WithOperation(metrics.ActionCreate))
	defer span.End()

	checkIn, err := utils.ParseDate(req.CheckIn)
	if err != nil {
		return nil, errors.ErrInvalidParams.WithMessage("入住日期格式错误")
	}
	checkOut, err := utils.ParseDate(req.CheckOut)
	if err != nil {
		return nil, errors.ErrInvalidParams.WithMessage("退房日期格式错误")
	}
	nights := models.Nights(checkIn, checkOut)
	if nights < 1 {
		return nil, errors.ErrInvalidDateRange
	}
	if req.GuestID <= 0 && req.Guest == nil {
		return nil, errors.ErrInvalidParams.WithMessage("请选择或登记客人")
	}

	var reservation *models.Reservation
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roomRepo := s.roomRepo.WithTx(tx)
		reservationRepo := s.reservationRepo.WithTx(tx)

		room, err := roomRepo.GetByID(ctx, req.RoomID)
		if err != nil {
			if isNotFound(err) {
				return errors.ErrRoomNotFound
			}
			return err
		}
		if !room.IsAvailable() {
			return errors.ErrRoomNotAvailable
		}

		overlap, err := reservationRepo.ExistsActiveOverlap(ctx, room.ID, checkIn, checkOut)
		if err != nil {
			return err
		}
		if overlap {
			return errors.ErrRoomNotAvailable
		}

		guest, err := s.resolveGuest(ctx, s.guestRepo.WithTx(tx), req)
		if err != nil {
			return err
		}

		ok, err := roomRepo.UpdateStatusIf(ctx, room.ID, models.RoomStatusAvailable, models.RoomStatusOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrRoomNotAvailable
		}
		room.Status = models.RoomStatusOccupied

		reservation = &models.Reservation{
			ReservationNo: utils.GenerateOrderNo(ReservationNoPrefix),
			GuestID:       guest.ID,
			RoomID:        room.ID,
			CheckIn:       datatypes.Date(checkIn),
			CheckOut:      datatypes.Date(checkOut),
			Status:        models.ReservationStatusActive,
			Total:         utils.RoundMoney(room.Price * float64(nights)),
			Guest:         guest,
			Room:          room,
		}
		return reservationRepo.Create(ctx, reservation)
	})
	if err != nil {
		tracing.SetError(ctx, err)
		return nil, dbError(err)
	}

	tracing.SetAttributes(ctx, tracing.WithReservationID(reservation.ID), tracing.WithGuestID(reservation.GuestID))
	logger.Info("预订已创建",
		logger.Module("reservation"),
		logger.Action(metrics.ActionCreate),
		logger.ReservationID(reservation.ID),
		logger.ReservationNo(reservation.ReservationNo),
		logger.RoomID(reservation.RoomID),
		logger.GuestID(reservation.GuestID),
		logger.Float64("total", reservation.Total),
	)
	m := metrics.GetMetrics()
	m.RecordReservationTransition(metrics.ActionCreate)
	m.RecordRoomStatusChange(models.RoomStatusOccupied)
	invalidateDashboardStats(ctx)

	return toReservationInfo(reservation), nil
}

// resolveGuest 按 ID、联系方式查找客人，找不到时登记新客人
func (s *ReservationService) resolveGuest(ctx context.Context, guestRepo *repository.GuestRepository, req *CreateReservationRequest) (*models.Guest, error) {
	if req.GuestID > 0 {
		guest, err := guestRepo.GetByID(ctx, req.GuestID)
		if err != nil {
			if isNotFound(err) {
				return nil, errors.ErrGuestNotFound
			}
			return nil, err
		}
		return guest, nil
	}

	in := req.Guest
	name := strings.TrimSpace(in.Name)
	surname := strings.TrimSpace(in.Surname)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(in.Email)

	for _, contact := range []string{phone, email} {
		if contact == "" {
			continue
		}
		guest, err := guestRepo.GetByContact(ctx, contact)
		if err == nil {
			return guest, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	if name == "" || surname == "" || phone == "" {
		return nil, errors.ErrInvalidParams.WithMessage("新客人需要填写姓名和联系电话")
	}
	if !utils.ValidatePhone(phone) {
		return nil, errors.ErrInvalidParams.WithMessage("联系电话格式错误")
	}
	if email != "" && !utils.ValidateEmail(email) {
		return nil, errors.ErrInvalidParams.WithMessage("邮箱格式错误")
	}

	guest := &models.Guest{
		Name:    name,
		Surname: surname,
		Phone:   phone,
		Email:   utils.NullableString(email),
	}
	if err := guestRepo.Create(ctx, guest); err != nil {
		return nil, err
	}
	logger.Info("预订时登记新客人", logger.Module("guest"), logger.Action("create"), logger.GuestID(guest.ID),
		logger.Contact(crypto.MaskPhone(guest.Phone)))
	return guest, nil
}

// Checkout 退房：预订完结，房间进入清洁
func (s *ReservationService) Checkout(ctx context.Context, id int64) (*ReservationInfo, error) {
	return s.transition(ctx, id, metrics.ActionCheckout, models.ReservationStatusFinalized, models.RoomStatusCleaning)
}

// Cancel 取消预订：房间恢复空闲
func (s *ReservationService) Cancel(ctx context.Context, id int64) (*ReservationInfo, error) {
	return s.transition(ctx, id, metrics.ActionCancel, models.ReservationStatusCancelled, models.RoomStatusAvailable)
}

// transition 将进行中的预订改为终态，并在同一事务内更新房间状态
func (s *ReservationService) transition(ctx context.Context, id int64, action, to, roomStatus string) (*ReservationInfo, error) {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "reservation."+action,
		tracing.WithReservationID(id), tracing.WithOperation(action))
	defer span.End()

	var reservation *models.Reservation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservationRepo := s.reservationRepo.WithTx(tx)

		r, err := reservationRepo.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return errors.ErrReservationNotFound
			}
			return err
		}
		if !r.IsActive() {
			return errors.ErrReservationNotActive
		}

		now := time.Now()
		ok, err := reservationRepo.UpdateStatus(ctx, id, models.ReservationStatusActive, to, now)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrReservationNotActive
		}

		if err := s.roomRepo.WithTx(tx).UpdateStatus(ctx, r.RoomID, roomStatus); err != nil {
			return err
		}

		reservation, err = reservationRepo.GetByIDWithDetails(ctx, id)
		return err
	})
	if err != nil {
		tracing.SetError(ctx, err)
		return nil, dbError(err)
	}

	logger.Info("预订状态已变更",
		logger.Module("reservation"),
		logger.Action(action),
		logger.ReservationID(id),
		logger.RoomID(reservation.RoomID),
		logger.Status(to),
	)
	m := metrics.GetMetrics()
	m.RecordReservationTransition(action)
	m.RecordRoomStatusChange(roomStatus)
	invalidateDashboardStats(ctx)

	return toReservationInfo(reservation), nil
}

// Delete 删除预订，无论预订状态如何都把房间恢复为空闲
func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	ctx, span := tracing.GetTracer().StartSpan(ctx, "reservation.delete",
		tracing.WithReservationID(id), tracing.WithOperation(metrics.ActionDelete))
	defer span.End()

	var roomID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservationRepo := s.reservationRepo.WithTx(tx)

		r, err := reservationRepo.GetByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return errors.ErrReservationNotFound
			}
			return err
		}
		roomID = r.RoomID

		if err := reservationRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.roomRepo.WithTx(tx).UpdateStatus(ctx, roomID, models.RoomStatusAvailable)
	})
	if err != nil {
		tracing.SetError(ctx, err)
		return dbError(err)
	}

	logger.Info("预订已删除",
		logger.Module("reservation"),
		logger.Action(metrics.ActionDelete),
		logger.ReservationID(id),
		logger.RoomID(roomID),
	)
	m := metrics.GetMetrics()
	m.RecordReservationTransition(metrics.ActionDelete)
	m.RecordRoomStatusChange(models.RoomStatusAvailable)
	invalidateDashboardStats(ctx)
	return nil
}

// GetReservation 获取预订详情
func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*ReservationInfo, error) {
	reservation, err := s.reservationRepo.GetByIDWithDetails(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrReservationNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return toReservationInfo(reservation), nil
}

// ListReservations 获取预订列表
// filters 支持 keyword、status、guest_id、room_id
func (s *ReservationService) ListReservations(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*ReservationInfo, int64, error) {
	if status, ok := filters["status"].(string); ok && status != "" && !models.IsValidReservationStatus(status) {
		return nil, 0, errors.ErrInvalidParams.WithMessage("无效的预订状态")
	}

	reservations, total, err := s.reservationRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*ReservationInfo, len(reservations))
	for i, r := range reservations {
		list[i] = toReservationInfo(r)
	}
	return list, total, nil
}

// ConfirmationQRCode 生成预订确认单二维码（PNG）
func (s *ReservationService) ConfirmationQRCode(ctx context.Context, id int64) ([]byte, error) {
	info, err := s.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := qrcode.ReservationPayload{
		ReservationNo: info.ReservationNo,
		GuestName:     info.GuestName,
		RoomNumber:    info.RoomNumber,
		CheckIn:       info.CheckIn,
		CheckOut:      info.CheckOut,
		Total:         utils.FormatMoney(info.Total),
	}
	png, err := s.qrGenerator.PNG(payload.Content())
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return png, nil
}

func toReservationInfo(r *models.Reservation) *ReservationInfo {
	info := &ReservationInfo{
		ID:            r.ID,
		ReservationNo: r.ReservationNo,
		GuestID:       r.GuestID,
		RoomID:        r.RoomID,
		CheckIn:       utils.FormatDate(time.Time(r.CheckIn)),
		CheckOut:      utils.FormatDate(time.Time(r.CheckOut)),
		Nights:        r.Nights(),
		Total:         r.Total,
		Status:        r.Status,
		StatusName:    ReservationStatusName(r.Status),
		FinalizedAt:   r.FinalizedAt,
		CancelledAt:   r.CancelledAt,
		CreatedAt:     r.CreatedAt,
	}
	if r.Guest != nil {
		info.GuestName = r.Guest.FullName()
	}
	if r.Room != nil {
		info.RoomNumber = r.Room.Number
		info.RoomType = r.Room.Type
	}
	return info
}

// ReservationStatusName 预订状态名称
func ReservationStatusName(status string) string {
	switch status {
	case models.ReservationStatusActive:
		return "进行中"
	case models.ReservationStatusFinalized:
		return "已退房"
	case models.ReservationStatusCancelled:
		return "已取消"
	default:
		return "未知"
	}
}
