package user

import (
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/service"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/storage"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	userService service.UserServiceInterface
	storage     storage.Storage
}

func NewProfileHandler(userService service.UserServiceInterface, storage storage.Storage) *ProfileHandler {
	return &ProfileHandler{userService, storage}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}

	var updateData struct {
		Username string `json:"username" binding:"omitempty,min=3,max=50"`
		Bio      string `json:"bio" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		apiutil.BindError(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, updateData.Username, updateData.Bio)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "Profile updated")
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID, ok := apiutil.CurrentUser(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "avatar file is required", err))
		return
	}
	if !util.IsAllowedUpload(file.Filename) {
		errors.HandleError(c, errors.New(errors.ErrValidation, "unsupported file type"))
		return
	}

	avatarURL, err := h.storage.UploadFile(c.Request.Context(), file, storage.ObjectKey("avatars", userID, file.Filename))
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrStorage, "failed to upload avatar", err))
		return
	}

	if err := h.userService.UpdateAvatar(c.Request.Context(), userID, avatarURL); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"avatar_url": avatarURL,
	}, "Avatar uploaded")
}
