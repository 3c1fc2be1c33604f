package repository

import (
	"gorm.io/gorm"
)

// first 取首条记录，未找到时返回 gorm.ErrRecordNotFound
func first[T any](q *gorm.DB, conds ...interface{}) (*T, error) {
	var v T
	if err := q.First(&v, conds...).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func count(q *gorm.DB) (int64, error) {
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// exists excludeID 大于 0 时排除该行
func exists(q *gorm.DB, excludeID int64) (bool, error) {
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	n, err := count(q)
	return n > 0, err
}

// page 先统计总数再按 order 取一页，scopes 只作用于取数据的查询
func page[T any](q *gorm.DB, order string, offset, limit int, scopes ...func(*gorm.DB) *gorm.DB) ([]*T, int64, error) {
	total, err := count(q)
	if err != nil {
		return nil, 0, err
	}

	var list []*T
	if err := q.Scopes(scopes...).Order(order).Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// updateIf 带条件更新，返回是否有行被修改
func updateIf(q *gorm.DB, fields map[string]interface{}) (bool, error) {
	result := q.Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func contains(term string) string {
	return "%" + term + "%"
}
