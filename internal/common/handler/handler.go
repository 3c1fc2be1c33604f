// Package handler 提供各 Handler 共用的错误映射、参数解析与分页辅助函数
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
	"github.com/dumeirei/hotel-frontdesk/internal/common/utils"
	"github.com/dumeirei/hotel-frontdesk/internal/middleware"
)

// httpStatusByCode 业务错误码到 HTTP 状态码，未登记的按 400 处理
var httpStatusByCode = map[int]int{
	errors.ErrDatabaseError.Code:   http.StatusInternalServerError,
	errors.ErrInternalError.Code:   http.StatusInternalServerError,
	errors.ErrRateLimitExceed.Code: http.StatusTooManyRequests,

	errors.ErrTokenExpired.Code:     http.StatusUnauthorized,
	errors.ErrTokenRefreshFail.Code: http.StatusUnauthorized,
	errors.ErrPasswordError.Code:    http.StatusUnauthorized,
	errors.ErrPermissionDenied.Code: http.StatusForbidden,

	errors.ErrEmployeeNotFound.Code:    http.StatusNotFound,
	errors.ErrRoomNotFound.Code:        http.StatusNotFound,
	errors.ErrGuestNotFound.Code:       http.StatusNotFound,
	errors.ErrReservationNotFound.Code: http.StatusNotFound,

	errors.ErrUsernameExists.Code:       http.StatusConflict,
	errors.ErrCannotDeleteSelf.Code:     http.StatusConflict,
	errors.ErrRoomNumberExists.Code:     http.StatusConflict,
	errors.ErrRoomNotAvailable.Code:     http.StatusConflict,
	errors.ErrRoomHasReservations.Code:  http.StatusConflict,
	errors.ErrGuestContactExists.Code:   http.StatusConflict,
	errors.ErrGuestHasReservations.Code: http.StatusConflict,
	errors.ErrReservationNotActive.Code: http.StatusConflict,
}

// HTTPStatus 业务错误码对应的 HTTP 状态码
func HTTPStatus(code int) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusBadRequest
}

// HandleError err 非空时写出错误响应并返回 true，调用方随即 return
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if appErr, ok := errors.As(err); ok {
		response.ErrorWithStatus(c, HTTPStatus(appErr.Code), appErr.Code, appErr.Message)
		return true
	}
	_ = c.Error(err)
	response.InternalError(c, "")
	return true
}

// MustSucceed 出错时写错误响应，否则写 data
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if !HandleError(c, err) {
		response.Success(c, data)
	}
}

// MustSucceedWithMessage 同 MustSucceed，成功时附带提示语
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if !HandleError(c, err) {
		response.SuccessWithMessage(c, message, data)
	}
}

// MustSucceedPage 同 MustSucceed，成功时输出分页结构
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, p utils.Pagination) {
	if !HandleError(c, err) {
		response.SuccessPage(c, list, total, p.Page, p.PageSize)
	}
}

// RequireEmployeeID 取当前登录员工，未登录时已写出 401
func RequireEmployeeID(c *gin.Context) (int64, bool) {
	employeeID := middleware.GetEmployeeID(c)
	if employeeID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return employeeID, true
}

// ParseID 解析路径参数 id，非正整数时已写出 400
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryID 解析可选的查询参数 ID，缺省返回 nil
func ParseQueryID(c *gin.Context, name, resourceName string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return nil, false
	}
	return &id, true
}

// BindPagination 读取 page/page_size 并规范化
func BindPagination(c *gin.Context) utils.Pagination {
	var p utils.Pagination
	p.Page, _ = strconv.Atoi(c.Query("page"))
	p.PageSize, _ = strconv.Atoi(c.Query("page_size"))
	p.Normalize()
	return p
}

// RequireEmployeeAndParseID 组合 RequireEmployeeID 与 ParseID
func RequireEmployeeAndParseID(c *gin.Context, resourceName string) (employeeID, resourceID int64, ok bool) {
	if employeeID, ok = RequireEmployeeID(c); !ok {
		return 0, 0, false
	}
	if resourceID, ok = ParseID(c, resourceName); !ok {
		return 0, 0, false
	}
	return employeeID, resourceID, true
}
