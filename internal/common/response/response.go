// Package response 提供统一的 API 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
)

// Response API 统一响应结构，Code 为 0 表示成功
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData 分页数据
type PageData struct {
	List       interface{} `json:"list"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Message: message, Data: data})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	p := utils.Pagination{Page: page, PageSize: pageSize, Total: total}
	Success(c, PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: p.GetTotalPages(),
	})
}

// ErrorWithStatus 输出业务错误码并终止后续处理
func ErrorWithStatus(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, Response{Code: code, Message: message})
}

// abort 以 HTTP 状态码作为业务码输出错误并终止后续处理
func abort(c *gin.Context, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, Response{Code: status, Message: message})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message)
}

// Unauthorized 未登录或令牌无效
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, message)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message)
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	abort(c, http.StatusInternalServerError, message)
}
