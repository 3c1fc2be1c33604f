// Package models 定义前台系统的数据模型
package models

// AllModels 返回需要自动迁移的模型，顺序满足外键依赖
func AllModels() []interface{} {
	return []interface{}{
		&Room{},
		&Guest{},
		&Employee{},
		&Reservation{},
	}
}
