package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reservation 预订模型
type Reservation struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ReservationNo string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"reservation_no"`
	GuestID       int64          `gorm:"index;not null" json:"guest_id"`
	RoomID        int64          `gorm:"index;not null" json:"room_id"`
	CheckIn       datatypes.Date `gorm:"not null" json:"check_in"`
	CheckOut      datatypes.Date `gorm:"not null" json:"check_out"`
	Status        string         `gorm:"type:varchar(20);not null;default:active;index" json:"status"`
	Total         float64        `gorm:"type:decimal(10,2);not null" json:"total"`
	FinalizedAt   *time.Time     `json:"finalized_at,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Guest *Guest `gorm:"foreignKey:GuestID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"guest,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"room,omitempty"`
}

// TableName 表名
func (Reservation) TableName() string {
	return "reservations"
}

// ReservationStatus 预订状态
const (
	ReservationStatusActive    = "active"    // 进行中
	ReservationStatusFinalized = "finalized" // 已退房
	ReservationStatusCancelled = "cancelled" // 已取消
)

// IsValidReservationStatus 判断预订状态是否合法
func IsValidReservationStatus(status string) bool {
	switch status {
	case ReservationStatusActive, ReservationStatusFinalized, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsActive 是否进行中
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsTerminal 是否终态
func (r *Reservation) IsTerminal() bool {
	return r.Status == ReservationStatusFinalized || r.Status == ReservationStatusCancelled
}

// Nights 入住晚数
func (r *Reservation) Nights() int {
	return Nights(time.Time(r.CheckIn), time.Time(r.CheckOut))
}

// Nights 计算两个日期之间的整晚数，只比较日历日
func Nights(checkIn, checkOut time.Time) int {
	in := time.Date(checkIn.Year(), checkIn.Month(), checkIn.Day(), 0, 0, 0, 0, time.UTC)
	out := time.Date(checkOut.Year(), checkOut.Month(), checkOut.Day(), 0, 0, 0, 0, time.UTC)
	return int(out.Sub(in).Hours() / 24)
}
