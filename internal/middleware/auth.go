// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/jwt"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

// 上下文键
const (
	ContextKeyEmployeeID = "employee_id"
	ContextKeyUsername   = "username"
	ContextKeyPrivilege  = "privilege"
)

// Auth 员工认证中间件
func Auth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, "请先登录")
			return
		}

		claims, err := jwtManager.ParseAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Unauthorized(c, "登录已过期，请重新登录")
			} else {
				response.Unauthorized(c, "无效的令牌")
			}
			return
		}

		c.Set(ContextKeyEmployeeID, claims.EmployeeID)
		c.Set(ContextKeyUsername, claims.Username)
		c.Set(ContextKeyPrivilege, claims.Privilege)

		c.Next()
	}
}

// RequirePrivileges 要求指定权限等级之一
func RequirePrivileges(privileges ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(privileges))
	for _, p := range privileges {
		allowed[p] = struct{}{}
	}

	return func(c *gin.Context) {
		privilege := GetPrivilege(c)
		if privilege == "" {
			response.Unauthorized(c, "请先登录")
			return
		}

		if _, ok := allowed[privilege]; !ok {
			response.ErrorWithStatus(c, http.StatusForbidden, apperrors.ErrPermissionDenied.Code, apperrors.ErrPermissionDenied.Message)
			return
		}

		c.Next()
	}
}

// RequireAdministrator 要求管理员权限
func RequireAdministrator() gin.HandlerFunc {
	return RequirePrivileges(models.PrivilegeAdministrator)
}

// extractToken 从请求中提取令牌
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 二维码图片等直接在浏览器打开的链接通过查询参数携带令牌
	if token := c.Query("token"); token != "" {
		return token
	}

	token, _ := c.Cookie("token")
	return token
}

// GetEmployeeID 从上下文获取员工 ID
func GetEmployeeID(c *gin.Context) int64 {
	return c.GetInt64(ContextKeyEmployeeID)
}

// GetUsername 从上下文获取用户名
func GetUsername(c *gin.Context) string {
	return c.GetString(ContextKeyUsername)
}

// GetPrivilege 从上下文获取权限等级
func GetPrivilege(c *gin.Context) string {
	return c.GetString(ContextKeyPrivilege)
}
