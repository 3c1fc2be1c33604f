// Package auth 提供员工登录认证服务
package auth

import (
	"context"
	stderrors "errors"
	"strings"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/jwt"
	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
	"github.com/dumeirei/hotel-frontdesk/internal/repository"
)

// AuthService 认证服务
type AuthService struct {
	employeeRepo *repository.EmployeeRepository
	jwtManager   *jwt.Manager
}

// NewAuthService 创建认证服务
func NewAuthService(employeeRepo *repository.EmployeeRepository, jwtManager *jwt.Manager) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		jwtManager:   jwtManager,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IP       string `json:"-"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Employee  *EmployeeInfo  `json:"employee"`
	Privilege string         `json:"privilege"`
	TokenPair *jwt.TokenPair `json:"token"`
}

// EmployeeInfo 员工信息（不含密码）
type EmployeeInfo struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	FullName  string  `json:"full_name"`
	Position  string  `json:"position"`
	Phone     *string `json:"phone,omitempty"`
	Username  string  `json:"username"`
	Privilege string  `json:"privilege"`
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login 员工登录
// 用户名不存在与密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, errors.ErrInvalidParams.WithMessage("请输入用户名和密码")
	}

	employee, err := s.employeeRepo.GetByUsername(ctx, username)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			s.loginFailed(username, req.IP, "unknown_username")
			return nil, errors.ErrPasswordError
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	if !crypto.VerifyPassword(req.Password, employee.PasswordHash) {
		s.loginFailed(username, req.IP, "wrong_password")
		return nil, errors.ErrPasswordError
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(employee.ID, employee.Username, employee.Privilege)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}

	metrics.GetMetrics().RecordLogin(true)
	logger.Info("员工登录成功",
		logger.Module("auth"),
		logger.Action("login"),
		logger.EmployeeID(employee.ID),
		logger.String("privilege", employee.Privilege),
		logger.IP(req.IP),
	)

	return &LoginResponse{
		Employee:  ToEmployeeInfo(employee),
		Privilege: employee.Privilege,
		TokenPair: tokenPair,
	}, nil
}

func (s *AuthService) loginFailed(username, ip, reason string) {
	metrics.GetMetrics().RecordLogin(false)
	logger.Warn("员工登录失败",
		logger.Module("auth"),
		logger.Action("login"),
		logger.String("username", username),
		logger.String("reason", reason),
		logger.IP(ip),
	)
}

// GetProfile 获取当前员工信息
func (s *AuthService) GetProfile(ctx context.Context, employeeID int64) (*EmployeeInfo, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrEmployeeNotFound
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return ToEmployeeInfo(employee), nil
}

// RefreshToken 刷新令牌，按员工当前权限重新签发
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrTokenRefreshFail
	}

	employee, err := s.employeeRepo.GetByID(ctx, claims.EmployeeID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrTokenRefreshFail
		}
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(employee.ID, employee.Username, employee.Privilege)
	if err != nil {
		return nil, errors.ErrInternalError.WithError(err)
	}
	return tokenPair, nil
}

// ToEmployeeInfo 转换为员工信息
func ToEmployeeInfo(e *models.Employee) *EmployeeInfo {
	return &EmployeeInfo{
		ID:        e.ID,
		Name:      e.Name,
		Surname:   e.Surname,
		FullName:  e.FullName(),
		Position:  e.Position,
		Phone:     e.Phone,
		Username:  e.Username,
		Privilege: e.Privilege,
	}
}
