// Package admin 提供管理员专属的员工管理与看板服务
package admin

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
	"github.com/dumeirei/hotel-frontdesk/internal/service/auth"
)

// EmployeeService 员工管理服务
type EmployeeService struct {
	employeeRepo *repository.EmployeeRepository
}

// NewEmployeeService 创建员工管理服务
func NewEmployeeService(employeeRepo *repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	Name      string `json:"name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
	Position  string `json:"position" binding:"required"`
	Phone     string `json:"phone"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Privilege string `json:"privilege" binding:"required"`
}

// UpdateEmployeeRequest 更新员工请求
type UpdateEmployeeRequest struct {
	Name      string `json:"name" binding:"required"`
	Surname   string `json:"surname" binding:"required"`
	Position  string `json:"position" binding:"required"`
	Phone     string `json:"phone"`
	Privilege string `json:"privilege" binding:"required"`
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func validateEmployee(name, surname, position, phone, privilege string) error {
	if name == "" || surname == "" {
		return errors.ErrInvalidParams.WithMessage("员工姓名不能为空")
	}
	if position == "" {
		return errors.ErrInvalidParams.WithMessage("职位不能为空")
	}
	if phone != "" && !utils.ValidatePhone(phone) {
		return errors.ErrInvalidParams.WithMessage("联系电话格式错误")
	}
	if !models.IsValidPrivilege(privilege) {
		return errors.ErrInvalidPrivilege
	}
	return nil
}

// Create 创建员工
func (s *EmployeeService) Create(ctx context.Context, req *CreateEmployeeRequest) (*auth.EmployeeInfo, error) {
	name := strings.TrimSpace(req.Name)
	surname := strings.TrimSpace(req.Surname)
	position := strings.TrimSpace(req.Position)
	phone := strings.TrimSpace(req.Phone)
	username := strings.TrimSpace(req.Username)

	if err := validateEmployee(name, surname, position, phone, req.Privilege); err != nil {
		return nil, err
	}
	if username == "" || req.Password == "" {
		return nil, errors.ErrInvalidParams.WithMessage("用户名和密码不能为空")
	}

	exists, err := s.employeeRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, errors.ErrUsernameExists
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	employee := &models.Employee{
		Name:         name,
		Surname:      surname,
		Position:     position,
		Phone:        utils.NullableString(phone),
		Username:     username,
		PasswordHash: hash,
		Privilege:    req.Privilege,
	}
	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工已创建", logger.Module("employee"), logger.Action("create"), logger.EmployeeID(employee.ID))
	return auth.ToEmployeeInfo(employee), nil
}

// Update 更新员工资料与权限，用户名不可修改
func (s *EmployeeService) Update(ctx context.Context, id int64, req *UpdateEmployeeRequest) (*auth.EmployeeInfo, error) {
	name := strings.TrimSpace(req.Name)
	surname := strings.TrimSpace(req.Surname)
	position := strings.TrimSpace(req.Position)
	phone := strings.TrimSpace(req.Phone)

	if err := validateEmployee(name, surname, position, phone, req.Privilege); err != nil {
		return nil, err
	}

	employee, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	employee.Name = name
	employee.Surname = surname
	employee.Position = position
	employee.Phone = utils.NullableString(phone)
	employee.Privilege = req.Privilege
	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工已更新", logger.Module("employee"), logger.Action("update"), logger.EmployeeID(id))
	return auth.ToEmployeeInfo(employee), nil
}

// ResetPassword 重置员工密码
func (s *EmployeeService) ResetPassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return errors.ErrInvalidParams.WithMessage("密码不能为空")
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return errors.ErrInternalError.WithError(err)
	}
	if err := s.employeeRepo.UpdatePassword(ctx, id, hash); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工密码已重置", logger.Module("employee"), logger.Action("reset_password"), logger.EmployeeID(id))
	return nil
}

// Delete 删除员工，不能删除当前登录账号
func (s *EmployeeService) Delete(ctx context.Context, operatorID, id int64) error {
	if operatorID == id {
		return errors.ErrCannotDeleteSelf
	}
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return errors.ErrDatabaseError.WithError(err)
	}

	logger.Info("员工已删除",
		logger.Module("employee"),
		logger.Action("delete"),
		logger.EmployeeID(id),
		logger.Int64("operator_id", operatorID),
	)
	return nil
}

// Get 获取员工
func (s *EmployeeService) Get(ctx context.Context, id int64) (*auth.EmployeeInfo, error) {
	employee, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return auth.ToEmployeeInfo(employee), nil
}

// List 获取员工列表
// filters 支持 username、name、privilege
func (s *EmployeeService) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*auth.EmployeeInfo, int64, error) {
	employees, total, err := s.employeeRepo.List(ctx, offset, limit, filters)
	if err != nil {
		return nil, 0, errors.ErrDatabaseError.WithError(err)
	}

	list := make([]*auth.EmployeeInfo, len(employees))
	for i, e := range employees {
		list[i] = auth.ToEmployeeInfo(e)
	}
	return list, total, nil
}

func (s *EmployeeService) get(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrEmployeeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return employee, nil
}
