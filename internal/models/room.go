package models

import (
	"time"
)

// Room 房间模型
type Room struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Number    string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"number"`
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Status    string    `gorm:"type:varchar(20);not null;default:available;index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomStatus 房间状态
const (
	RoomStatusAvailable   = "available"   // 空闲
	RoomStatusOccupied    = "occupied"    // 入住中
	RoomStatusCleaning    = "cleaning"    // 清洁中
	RoomStatusMaintenance = "maintenance" // 维修中
)

// RoomType 种子数据使用的房型，房型本身允许自由填写
const (
	RoomTypeSingle = "Sencilla"
	RoomTypeDouble = "Doble"
	RoomTypeFamily = "Familiar"
	RoomTypeDeluxe = "Deluxe"
)

// RoomStatuses 全部房间状态
var RoomStatuses = []string{
	RoomStatusAvailable,
	RoomStatusOccupied,
	RoomStatusCleaning,
	RoomStatusMaintenance,
}

// IsValidRoomStatus 判断房间状态是否合法
func IsValidRoomStatus(status string) bool {
	for _, s := range RoomStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsAvailable 是否可预订
func (r *Room) IsAvailable() bool {
	return r.Status == RoomStatusAvailable
}
