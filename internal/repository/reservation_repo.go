package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) WithTx(tx *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: tx}
}

func (r *ReservationRepository) reservations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Reservation{})
}

func withDetails(q *gorm.DB) *gorm.DB {
	return q.Preload("Guest").Preload("Room")
}

func (r *ReservationRepository) Create(ctx context.Context, reservation *models.Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*models.Reservation, error) {
	return first[models.Reservation](r.db.WithContext(ctx), id)
}

// GetByIDWithDetails 同时加载客人和房间
func (r *ReservationRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Reservation, error) {
	return first[models.Reservation](withDetails(r.db.WithContext(ctx)), id)
}

// UpdateStatus 仅当预订处于 from 状态时改为 to，并写入退房或取消时间
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, from, to string, at time.Time) (bool, error) {
	fields := map[string]interface{}{"status": to}
	switch to {
	case models.ReservationStatusFinalized:
		fields["finalized_at"] = at
	case models.ReservationStatusCancelled:
		fields["cancelled_at"] = at
	}
	return updateIf(r.reservations(ctx).Where("id = ? AND status = ?", id, from), fields)
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Reservation{}, id).Error
}

// List 过滤键: status, guest_id, room_id, keyword
// keyword 按词匹配客人姓名或房间号
func (r *ReservationRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Reservation, int64, error) {
	q := r.reservations(ctx)

	if status, ok := filters["status"].(string); ok && status != "" {
		q = q.Where("status = ?", status)
	}
	for _, key := range []string{"guest_id", "room_id"} {
		if id, ok := filters[key].(int64); ok && id > 0 {
			q = q.Where(key+" = ?", id)
		}
	}
	if keyword, ok := filters["keyword"].(string); ok {
		for _, term := range strings.Fields(keyword) {
			like := contains(term)
			guests := r.db.Model(&models.Guest{}).Select("id").Where("name LIKE ? OR surname LIKE ?", like, like)
			rooms := r.db.Model(&models.Room{}).Select("id").Where("number LIKE ?", like)
			q = q.Where("(guest_id IN (?) OR room_id IN (?))", guests, rooms)
		}
	}

	return page[models.Reservation](q, "id DESC", offset, limit, withDetails)
}

func (r *ReservationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return count(r.reservations(ctx).Where("status = ?", status))
}

// CountByRoom 包含所有状态的预订
func (r *ReservationRepository) CountByRoom(ctx context.Context, roomID int64) (int64, error) {
	return count(r.reservations(ctx).Where("room_id = ?", roomID))
}

func (r *ReservationRepository) CountByGuest(ctx context.Context, guestID int64) (int64, error) {
	return count(r.reservations(ctx).Where("guest_id = ?", guestID))
}

// ExistsActiveOverlap 半开区间 [checkIn, checkOut) 与进行中预订相交即为冲突
func (r *ReservationRepository) ExistsActiveOverlap(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	q := r.reservations(ctx).
		Where("room_id = ? AND status = ?", roomID, models.ReservationStatusActive).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)
	return exists(q, 0)
}

// ListOverdue 退房日期早于 before 的进行中预订，按退房日期升序
func (r *ReservationRepository) ListOverdue(ctx context.Context, before time.Time, limit int) ([]*models.Reservation, error) {
	var list []*models.Reservation
	err := withDetails(r.reservations(ctx)).
		Where("status = ? AND check_out < ?", models.ReservationStatusActive, before).
		Order("check_out ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
