package hotel

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

// GuestService 客人服务
type GuestService struct {
	db              *gorm.DB
	guestRepo       *repository.GuestRepository
	reservationRepo *repository.ReservationRepository
}

// NewGuestService 创建客人服务
func NewGuestService(db *gorm.DB, guestRepo *repository.GuestRepository, reservationRepo *repository.ReservationRepository) *GuestService {
	return &GuestService{
		db:              db,
		guestRepo:       guestRepo,
		reservationRepo: reservationRepo,
	}
}

// GuestRequest 创建/更新客人请求
type GuestRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// normalize 去除首尾空格并校验必填项和格式
func (r *GuestRequest) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Surname = strings.TrimSpace(r.Surname)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)

	if r.Name == "" || r.Surname == "" {
		return errors.ErrInvalidParams.WithMessage("客人姓名不能为空")
	}
	if r.Phone == "" {
		return errors.ErrInvalidParams.WithMessage("联系电话不能为空")
	}
	if !utils.ValidatePhone(r.Phone) {
		return errors.ErrInvalidParams.WithMessage("联系电话格式错误")
	}
	if r.Email != "" && !utils.ValidateEmail(r.Email) {
		return errors.ErrInvalidParams.WithMessage("邮箱格式错误")
	}
	return nil
}

// CreateGuest 登记客人
func (s *GuestService) CreateGuest(ctx context.Context, req *GuestRequest) (*models.Guest, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	guest := &models.Guest{
		Name:     req.Name,
		Surname:  req.Surname,
		Phone:    req.Phone,
		Email:    utils.NullableString(req.Email),
		Username: utils.NullableString(req.Username),
	}
	if req.Password != "" {
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return nil, errors.ErrInternalError.WithError(err)
		}
		guest.PasswordHash = &hash
	}

	if err := s.checkUnique(ctx, guest, 0); err != nil {
		return nil, err
	}
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("客人已登记", logger.Module("guest"), logger.Action("create"), logger.GuestID(guest.ID),
		logger.Contact(crypto.MaskPhone(guest.Phone)))
	invalidateDashboardStats(ctx)
	return guest, nil
}

// UpdateGuest 更新客人信息，用户名或密码为空时保留原值
func (s *GuestService) UpdateGuest(ctx context.Context, id int64, req *GuestRequest) (*models.Guest, error) {
	if err := req.normalize(); err != nil {
		return nil, err
	}

	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	guest.Name = req.Name
	guest.Surname = req.Surname
	guest.Phone = req.Phone
	guest.Email = utils.NullableString(req.Email)
	if req.Username != "" {
		guest.Username = utils.NullableString(req.Username)
	}
	if req.Password != "" {
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			return nil, errors.ErrInternalError.WithError(err)
		}
		guest.PasswordHash = &hash
	}

	if err := s.checkUnique(ctx, guest, id); err != nil {
		return nil, err
	}
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("客人已更新", logger.Module("guest"), logger.Action("update"), logger.GuestID(guest.ID),
		logger.Contact(crypto.MaskPhone(guest.Phone)))
	return guest, nil
}

// DeleteGuest 删除客人，存在预订记录时拒绝
func (s *GuestService) DeleteGuest(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		guestRepo := s.guestRepo.WithTx(tx)
		if _, err := guestRepo.GetByID(ctx, id); err != nil {
			if isNotFound(err) {
				return errors.ErrGuestNotFound
			}
			return err
		}

		count, err := s.reservationRepo.WithTx(tx).CountByGuest(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return errors.ErrGuestHasReservations
		}

		return guestRepo.Delete(ctx, id)
	})
	if err != nil {
		return dbError(err)
	}

	logger.Info("客人已删除", logger.Module("guest"), logger.Action("delete"), logger.GuestID(id))
	invalidateDashboardStats(ctx)
	return nil
}

// GetGuest 获取客人
func (s *GuestService) GetGuest(ctx context.Context, id int64) (*models.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return guest, nil
}

// LookupByContact 根据电话、邮箱或用户名查找客人
func (s *GuestService) LookupByContact(ctx context.Context, contact string) (*models.Guest, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, errors.ErrInvalidParams.WithMessage("请提供联系方式")
	}

	guest, err := s.guestRepo.GetByContact(ctx, contact)
	if err != nil {
		if isNotFound(err) {
			logger.Debug("未找到客人", logger.Module("guest"), logger.Contact(crypto.MaskContact(contact)))
			return nil, errors.ErrGuestNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return guest, nil
}

// ListGuests 获取客人列表
func (s *GuestService) ListGuests(ctx context.Context, offset, limit int, keyword string) ([]*models.Guest, int64, error) {
	guests, total, err := s.guestRepo.List(ctx, offset, limit, strings.TrimSpace(keyword))
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}
	return guests, total, nil
}

// checkUnique 检查电话和用户名是否已被其他客人使用
func (s *GuestService) checkUnique(ctx context.Context, guest *models.Guest, excludeID int64) error {
	exists, err := s.guestRepo.ExistsByPhone(ctx, guest.Phone, excludeID)
	if err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return errors.ErrGuestContactExists
	}

	if guest.Username != nil {
		exists, err = s.guestRepo.ExistsByUsername(ctx, *guest.Username, excludeID)
		if err != nil {
			return errors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return errors.ErrGuestContactExists.WithMessage("用户名已被使用")
		}
	}
	return nil
}
