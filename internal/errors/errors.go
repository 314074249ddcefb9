package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode 定义错误码类型
type ErrorCode int

// 系统级错误码 (1000-1999)
const (
	ErrInternal ErrorCode = 1000 + iota
	ErrDatabase
	ErrStorage
	ErrTimeout
)

// 认证相关错误码 (2000-2999)
const (
	ErrUnauthorized ErrorCode = 2000 + iota
	ErrForbidden
	ErrInvalidToken
	ErrTokenExpired
	ErrInvalidCredentials
	ErrTooManyRequests
)

// 请求相关错误码 (3000-3999)
const (
	ErrBadRequest ErrorCode = 3000 + iota
	ErrValidation
	ErrResourceNotFound
	ErrResourceExists
	ErrResourceConflict
)

// 业务相关错误码 (4000-4999)
const (
	ErrUserNotFound ErrorCode = 4000 + iota
	ErrUserExists
	ErrWeakPassword
	ErrNotVerified
	ErrAdoptionPostNotFound
	ErrApplicationNotFound
	ErrSelfApplication
	ErrAlreadyApplied
	ErrAlreadyProcessed
	ErrAdoptionClosed
	ErrPostNotFound
	ErrPetNotFound
	ErrChatRoomNotFound
	ErrDocumentNotFound
	ErrClinicNotFound
	ErrSelfFollow
)

// AppError 定义应用错误结构
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
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

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AsAppError 从错误链中取出 AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf 返回错误码，非 AppError 视为内部错误
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrInternal
}

// Is 判断错误链中是否存在指定错误码
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
