// Package apiutil 各 handler 共用的请求解析
package apiutil

import (
	stderrors "errors"
	"io"
	"strconv"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParamID 解析路径中的正整数 ID，失败时已写出 400 响应
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "invalid "+name))
		return 0, false
	}
	return id, true
}

// Pagination 读取 page 与 limit，缺省为 1/10。page >= 1，limit 取 1 到 MaxPageSize
func Pagination(c *gin.Context) (page, pageSize int, ok bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "page must be a positive integer"))
		return 0, 0, false
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		errors.HandleError(c, errors.New(errors.ErrValidation, "limit must be a positive integer"))
		return 0, 0, false
	}
	if pageSize > MaxPageSize {
		errors.HandleError(c, errors.New(errors.ErrValidation, "limit must not exceed "+strconv.Itoa(MaxPageSize)))
		return 0, 0, false
	}
	return page, pageSize, true
}

// CurrentUser 当前登录用户 ID，未登录时已写出 401 响应
func CurrentUser(c *gin.Context) (int, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
		return 0, false
	}
	return userID, true
}

// BindOptionalJSON 请求体可以为空，空请求体按零值校验。失败时已写出 400 响应
func BindOptionalJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if stderrors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(obj)
	}
	if err != nil {
		BindError(c, err)
		return false
	}
	return true
}

// BindError 把绑定或校验失败统一为 400
func BindError(c *gin.Context, err error) {
	errors.HandleError(c, errors.Wrap(errors.ErrValidation, "invalid request data", err))
}

// Paged 列表接口的分页包装
type Paged struct {
	Items    interface{} `json:"items"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}
