package errors

import (
	stderrors "errors"
	"fmt"
)

// 错误码
const (
	CodeSuccess          = 200
	CodeBadRequest       = 400
	CodeUnauthorized     = 401
	CodeForbidden        = 403
	CodeNotFound         = 404
	CodeConflict         = 409
	CodeTooManyRequests  = 429
	CodeInternalError    = 500
	CodeDatabaseError    = 501 // StorageError: 事务或约束失败
	CodeAuthError        = 502
	CodeValidationError  = 503
	CodeTransientNetwork = 504 // 外部调用瞬时失败，可重试
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码匹配，errors.Is(err, ErrNotFound) 对任意 404 错误成立
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation 校验错误
func Validation(format string, args ...interface{}) *AppError {
	return New(CodeValidationError, fmt.Sprintf(format, args...))
}

// NotFound 资源不存在
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

// Storage 存储层错误
func Storage(message string, err error) *AppError {
	return Wrap(CodeDatabaseError, message, err)
}

// Transient 外部网络瞬时错误
func Transient(message string, err error) *AppError {
	return Wrap(CodeTransientNetwork, message, err)
}

// CodeOf 返回错误链上第一个 AppError 的错误码，非 AppError 返回 CodeInternalError
func CodeOf(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// MessageOf 返回 AppError 的业务消息，非 AppError 返回 err.Error()
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// IsCode 判断错误链上是否存在指定错误码
func IsCode(err error, code int) bool {
	return err != nil && CodeOf(err) == code
}

// AsStorage 事务内的错误统一转换为 StorageError，已是 StorageError 的原样返回
func AsStorage(message string, err error) error {
	if err == nil {
		return nil
	}
	if IsCode(err, CodeDatabaseError) {
		return err
	}
	return Storage(message, err)
}

// 预定义错误
var (
	ErrBadRequest       = New(CodeBadRequest, "请求参数错误")
	ErrUnauthorized     = New(CodeUnauthorized, "未授权")
	ErrForbidden        = New(CodeForbidden, "禁止访问")
	ErrNotFound         = New(CodeNotFound, "资源不存在")
	ErrConflict         = New(CodeConflict, "资源冲突")
	ErrTooManyRequests  = New(CodeTooManyRequests, "请求过于频繁，请稍后再试")
	ErrInternalError    = New(CodeInternalError, "内部服务器错误")
	ErrDatabaseError    = New(CodeDatabaseError, "数据库错误")
	ErrAuthError        = New(CodeAuthError, "认证失败")
	ErrValidationError  = New(CodeValidationError, "数据验证失败")
	ErrTransientNetwork = New(CodeTransientNetwork, "外部服务暂时不可用")

	// 具体业务错误
	ErrInvalidCredentials   = New(CodeAuthError, "用户名或密码错误")
	ErrLDAPConnectionFailed = New(CodeAuthError, "LDAP连接失败")
	ErrUserNotFound         = New(CodeNotFound, "用户不存在")
	ErrInvalidToken         = New(CodeUnauthorized, "无效的Token")
	ErrTokenExpired         = New(CodeUnauthorized, "Token已过期")
	ErrRecordNotFound       = New(CodeNotFound, "记录不存在")
	ErrAINotConfigured      = New(CodeValidationError, "AI生成未配置")
)
