// Package auth 提供员工登录相关的 HTTP Handler
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/handler"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	authService "github.com/dumeirei/hotel-frontdesk/internal/service/auth"
)

// Handler 认证处理器
type Handler struct {
	authService *authService.AuthService
}

// NewHandler 创建认证处理器
func NewHandler(authSvc *authService.AuthService) *Handler {
	return &Handler{
		authService: authSvc,
	}
}

// Login 员工登录
// @Summary 员工登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=authService.LoginResponse}
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请输入用户名和密码")
		return
	}
	req.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "登录成功", result)
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authService.RefreshTokenRequest true "请求参数"
// @Success 200 {object} response.Response{data=jwt.TokenPair}
// @Router /api/v1/auth/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req authService.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, tokenPair)
}

// GetProfile 获取当前员工信息
// @Summary 获取当前员工信息
// @Tags 认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=authService.EmployeeInfo}
// @Router /api/v1/auth/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	employeeID, ok := handler.RequireEmployeeID(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), employeeID)
	handler.MustSucceed(c, err, profile)
}
