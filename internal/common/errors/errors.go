// Package errors 定义前台业务错误码
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError 业务错误，Code 决定响应中的错误码与 HTTP 状态
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 只比较错误码，派生错误与哨兵错误视为同一种
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && e.Code == t.Code
}

// New 创建业务错误
func New(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap 创建携带底层错误的业务错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithMessage 复制错误并替换消息
func (e *AppError) WithMessage(message string) *AppError {
	return Wrap(e.Code, message, e.Err)
}

// WithError 复制错误并附加底层错误
func (e *AppError) WithError(err error) *AppError {
	return Wrap(e.Code, e.Message, err)
}

// As 从错误链中取出业务错误
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// 通用 (1000-1999)
var (
	ErrInvalidParams   = New(1001, "参数错误")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
)

// 认证 (2000-2999)
var (
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenRefreshFail = New(2003, "刷新令牌失败")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrPasswordError    = New(2007, "用户名或密码错误")
)

// 员工 (3000-3999)
var (
	ErrEmployeeNotFound = New(3000, "员工不存在")
	ErrUsernameExists   = New(3001, "用户名已存在")
	ErrInvalidPrivilege = New(3002, "无效的权限级别")
	ErrCannotDeleteSelf = New(3003, "不能删除当前登录账号")
)

// 房间 (4000-4999)
var (
	ErrRoomNotFound        = New(4000, "房间不存在")
	ErrRoomNumberExists    = New(4001, "房间号已存在")
	ErrRoomNotAvailable    = New(4002, "房间不可用")
	ErrRoomHasReservations = New(4003, "房间存在预订记录")
	ErrInvalidRoomStatus   = New(4004, "无效的房间状态")
)

// 客人 (5000-5999)
var (
	ErrGuestNotFound        = New(5000, "客人不存在")
	ErrGuestContactExists   = New(5001, "联系方式已被登记")
	ErrGuestHasReservations = New(5002, "客人存在预订记录")
)

// 预订 (8000-8999)
var (
	ErrReservationNotFound  = New(8000, "预订不存在")
	ErrReservationNotActive = New(8001, "预订不是进行中状态")
	ErrInvalidDateRange     = New(8002, "退房日期必须晚于入住日期")
)
