// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

func (r *RoomRepository) rooms(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Room{})
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return first[models.Room](r.db.WithContext(ctx), id)
}

func (r *RoomRepository) GetByNumber(ctx context.Context, number string) (*models.Room, error) {
	return first[models.Room](r.db.WithContext(ctx).Where("number = ?", number))
}

func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateStatus 不检查当前状态
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.rooms(ctx).Where("id = ?", id).Update("status", status).Error
}

// UpdateStatusIf 仅当房间处于 from 状态时改为 to
func (r *RoomRepository) UpdateStatusIf(ctx context.Context, id int64, from, to string) (bool, error) {
	return updateIf(r.rooms(ctx).Where("id = ? AND status = ?", id, from), map[string]interface{}{"status": to})
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}

// ExistsByNumber excludeID 大于 0 时排除该房间
func (r *RoomRepository) ExistsByNumber(ctx context.Context, number string, excludeID int64) (bool, error) {
	return exists(r.rooms(ctx).Where("number = ?", number), excludeID)
}

// List 支持的过滤键: status, type, number(模糊), min_price, max_price
func (r *RoomRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Room, int64, error) {
	q := r.rooms(ctx)
	for _, key := range []string{"status", "type"} {
		if v, ok := filters[key].(string); ok && v != "" {
			q = q.Where(key+" = ?", v)
		}
	}
	if number, ok := filters["number"].(string); ok && number != "" {
		q = q.Where("number LIKE ?", contains(number))
	}
	if minPrice, ok := filters["min_price"].(float64); ok && minPrice > 0 {
		q = q.Where("price >= ?", minPrice)
	}
	if maxPrice, ok := filters["max_price"].(float64); ok && maxPrice > 0 {
		q = q.Where("price <= ?", maxPrice)
	}
	return page[models.Room](q, "number ASC", offset, limit)
}

func (r *RoomRepository) ListAvailable(ctx context.Context) ([]*models.Room, error) {
	var list []*models.Room
	err := r.rooms(ctx).Where("status = ?", models.RoomStatusAvailable).Order("number ASC").Find(&list).Error
	return list, err
}

// CountByStatus 四种状态都会出现在结果中，没有房间的记为 0
func (r *RoomRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.rooms(ctx).Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.RoomStatuses))
	for _, s := range models.RoomStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
