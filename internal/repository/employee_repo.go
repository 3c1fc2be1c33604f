package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

// EmployeeRepository 员工账号
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) WithTx(tx *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: tx}
}

func (r *EmployeeRepository) employees(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Employee{})
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	return first[models.Employee](r.db.WithContext(ctx), id)
}

func (r *EmployeeRepository) GetByUsername(ctx context.Context, username string) (*models.Employee, error) {
	return first[models.Employee](r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// UpdateFields 只更新给定列，零值也会写入
func (r *EmployeeRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.employees(ctx).Where("id = ?", id).Updates(fields).Error
}

func (r *EmployeeRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.UpdateFields(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, id).Error
}

// List 过滤键: username(模糊), name(匹配名或姓), privilege
func (r *EmployeeRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Employee, int64, error) {
	q := r.employees(ctx)
	if username, ok := filters["username"].(string); ok && username != "" {
		q = q.Where("username LIKE ?", contains(username))
	}
	if name, ok := filters["name"].(string); ok && name != "" {
		q = q.Where("(name LIKE ? OR surname LIKE ?)", contains(name), contains(name))
	}
	if privilege, ok := filters["privilege"].(string); ok && privilege != "" {
		q = q.Where("privilege = ?", privilege)
	}
	return page[models.Employee](q, "id ASC", offset, limit)
}

func (r *EmployeeRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.employees(ctx).Where("username = ?", username), 0)
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	return count(r.employees(ctx))
}
