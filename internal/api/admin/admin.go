package admin

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsService 后台统计
type StatsService interface {
	GetSystemStats(ctx context.Context) (*model.SystemStats, error)
}

// UserService 用户列表
type UserService interface {
	GetUsers(ctx context.Context, page, pageSize int) ([]*model.User, error)
}

// ReviewService 认证材料审核与等级设置
type ReviewService interface {
	ListPending(ctx context.Context, adminID, page, pageSize int) ([]*model.VerificationDocument, int, error)
	Review(ctx context.Context, adminID, documentID int, approved bool, note string) (*model.VerificationDocument, error)
	SetUserLevel(ctx context.Context, adminID, userID int, level model.VerificationLevel) error
}

// AdminHandler 按功能模块组织处理方法
type AdminHandler struct {
	statsService  StatsService
	userService   UserService
	reviewService ReviewService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(statsService StatsService, userService UserService, reviewService ReviewService) *AdminHandler {
	return &AdminHandler{
		statsService:  statsService,
		userService:   userService,
		reviewService: reviewService,
	}
}

// 统计
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, stats, "")
}

// 用户管理
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	users, err := h.userService.GetUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, users, "")
}

func (h *AdminHandler) SetUserLevel(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	userID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Level model.VerificationLevel `json:"level" binding:"required,verification_level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	if err := h.reviewService.SetUserLevel(c.Request.Context(), adminID, userID, req.Level); err != nil {
		errors.HandleError(c, err)
		return
	}
	util.Logger.Info("用户等级已更新", zap.Int("admin_id", adminID), zap.Int("user_id", userID))
	errors.HandleSuccess(c, gin.H{"user_id": userID, "level": req.Level}, "Verification level updated")
}

// 认证材料审核
func (h *AdminHandler) ListPendingDocuments(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	page, pageSize, ok := apiutil.Pagination(c)
	if !ok {
		return
	}
	docs, total, err := h.reviewService.ListPending(c.Request.Context(), adminID, page, pageSize)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, apiutil.Paged{Items: docs, Total: total, Page: page, PageSize: pageSize}, "")
}

func (h *AdminHandler) ReviewDocument(c *gin.Context) {
	adminID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	docID, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Approved *bool  `json:"approved" binding:"required"`
		Note     string `json:"note" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apiutil.BindError(c, err)
		return
	}

	doc, err := h.reviewService.Review(c.Request.Context(), adminID, docID, *req.Approved, req.Note)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, doc, "Document reviewed")
}
