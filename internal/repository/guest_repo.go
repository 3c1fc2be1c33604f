package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

type GuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) *GuestRepository {
	return &GuestRepository{db: db}
}

func (r *GuestRepository) WithTx(tx *gorm.DB) *GuestRepository {
	return &GuestRepository{db: tx}
}

func (r *GuestRepository) guests(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Guest{})
}

func (r *GuestRepository) Create(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Create(guest).Error
}

func (r *GuestRepository) GetByID(ctx context.Context, id int64) (*models.Guest, error) {
	return first[models.Guest](r.db.WithContext(ctx), id)
}

// GetByContact 按电话、邮箱或用户名查找，多条命中时取最早登记的
func (r *GuestRepository) GetByContact(ctx context.Context, contact string) (*models.Guest, error) {
	q := r.db.WithContext(ctx).
		Where("(phone = ? OR email = ? OR username = ?)", contact, contact, contact).
		Order("id ASC")
	return first[models.Guest](q)
}

func (r *GuestRepository) Update(ctx context.Context, guest *models.Guest) error {
	return r.db.WithContext(ctx).Save(guest).Error
}

func (r *GuestRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Guest{}, id).Error
}

func (r *GuestRepository) ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	return exists(r.guests(ctx).Where("phone = ?", phone), excludeID)
}

func (r *GuestRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return exists(r.guests(ctx).Where("username = ?", username), excludeID)
}

// List keyword 按空白拆词，每个词都需命中姓名、邮箱或电话之一
func (r *GuestRepository) List(ctx context.Context, offset, limit int, keyword string) ([]*models.Guest, int64, error) {
	q := r.guests(ctx)
	for _, term := range strings.Fields(keyword) {
		like := contains(term)
		q = q.Where("(name LIKE ? OR surname LIKE ? OR email LIKE ? OR phone LIKE ?)", like, like, like, like)
	}
	return page[models.Guest](q, "surname ASC, name ASC", offset, limit)
}

func (r *GuestRepository) Count(ctx context.Context) (int64, error) {
	return count(r.guests(ctx))
}
