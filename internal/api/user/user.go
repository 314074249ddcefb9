package user

import (
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler 公开的用户资料
type UserHandler struct {
	userService service.UserServiceInterface
}

func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{userService}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := apiutil.ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{
		"id":                 user.ID,
		"username":           user.Username,
		"avatar_url":         user.AvatarURL,
		"bio":                user.Bio,
		"verification_level": user.VerificationLevel,
		"created_at":         user.CreatedAt,
	}, "")
}
