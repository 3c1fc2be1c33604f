package models

import (
	"strings"
	"time"
)

// Guest 客人模型
type Guest struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(50);not null" json:"name"`
	Surname      string    `gorm:"type:varchar(50);not null" json:"surname"`
	Phone        string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"phone"`
	Email        *string   `gorm:"type:varchar(100);index" json:"email,omitempty"`
	Username     *string   `gorm:"type:varchar(50);uniqueIndex" json:"username,omitempty"`
	PasswordHash *string   `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Guest) TableName() string {
	return "guests"
}

// FullName 姓名全称
func (g *Guest) FullName() string {
	return strings.TrimSpace(g.Name + " " + g.Surname)
}
