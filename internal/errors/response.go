package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义错误响应结构
type ErrorResponse struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SuccessResponse 定义成功响应结构
type SuccessResponse struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	ErrInternal: http.StatusInternalServerError,
	ErrDatabase: http.StatusInternalServerError,
	ErrStorage:  http.StatusInternalServerError,
	ErrTimeout:  http.StatusRequestTimeout,

	ErrUnauthorized:       http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidToken:       http.StatusUnauthorized,
	ErrTokenExpired:       http.StatusUnauthorized,
	ErrInvalidCredentials: http.StatusUnauthorized,
	ErrTooManyRequests:    http.StatusTooManyRequests,

	ErrBadRequest:       http.StatusBadRequest,
	ErrValidation:       http.StatusBadRequest,
	ErrResourceNotFound: http.StatusNotFound,
	ErrResourceExists:   http.StatusConflict,
	ErrResourceConflict: http.StatusConflict,

	ErrUserNotFound:         http.StatusNotFound,
	ErrUserExists:           http.StatusConflict,
	ErrWeakPassword:         http.StatusBadRequest,
	ErrNotVerified:          http.StatusBadRequest,
	ErrAdoptionPostNotFound: http.StatusNotFound,
	ErrApplicationNotFound:  http.StatusNotFound,
	ErrSelfApplication:      http.StatusBadRequest,
	ErrAlreadyApplied:       http.StatusBadRequest,
	ErrAlreadyProcessed:     http.StatusBadRequest,
	ErrAdoptionClosed:       http.StatusBadRequest,
	ErrPostNotFound:         http.StatusNotFound,
	ErrPetNotFound:          http.StatusNotFound,
	ErrChatRoomNotFound:     http.StatusNotFound,
	ErrDocumentNotFound:     http.StatusNotFound,
	ErrClinicNotFound:       http.StatusNotFound,
	ErrSelfFollow:           http.StatusBadRequest,
}

// StatusOf 返回错误对应的HTTP状态码
func StatusOf(err error) int {
	if appErr, ok := AsAppError(err); ok {
		if status, ok := errorStatusMap[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// HandleError 统一处理错误响应，内部错误细节不返回给客户端
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)

	if appErr, ok := AsAppError(err); ok {
		c.JSON(StatusOf(err), ErrorResponse{
			Code:    appErr.Code,
			Message: appErr.Message,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    ErrInternal,
		Message: "Internal Server Error",
	})
}

// HandleSuccess 统一处理成功响应
func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// HandleCreated 用于创建资源的响应
func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Code:    http.StatusCreated,
		Message: message,
		Data:    data,
	})
}
