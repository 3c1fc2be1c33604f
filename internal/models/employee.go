package models

import (
	"strings"
	"time"
)

// Employee 员工模型
type Employee struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(50);not null" json:"name"`
	Surname      string    `gorm:"type:varchar(50);not null" json:"surname"`
	Position     string    `gorm:"type:varchar(50);not null" json:"position"`
	Phone        *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Privilege    string    `gorm:"type:varchar(20);not null;default:Empleado" json:"privilege"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (Employee) TableName() string {
	return "employees"
}

// Privilege 权限级别
const (
	PrivilegeAdministrator = "Administrador"
	PrivilegeEmployee      = "Empleado"
)

// IsValidPrivilege 判断权限级别是否合法
func IsValidPrivilege(privilege string) bool {
	return privilege == PrivilegeAdministrator || privilege == PrivilegeEmployee
}

// IsAdministrator 是否管理员
func (e *Employee) IsAdministrator() bool {
	return e.Privilege == PrivilegeAdministrator
}

// FullName 姓名全称
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.Name + " " + e.Surname)
}
