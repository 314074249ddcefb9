package user

import (
	"github.com/HanniPham13/PawPalAPI-sub000/internal/api/apiutil"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/middleware"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/service"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var registerData struct {
		Username string `json:"username" binding:"required,min=3,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&registerData); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
		apiutil.BindError(c, err)
		return
	}

	user, err := h.userService.Register(c.Request.Context(), registerData.Username, registerData.Email, registerData.Password)
	if err != nil {
		if errors.Is(err, errors.ErrUserExists) {
			util.Logger.Warn("注册失败，用户已存在", zap.String("username", registerData.Username))
		}
		errors.HandleError(c, err)
		return
	}

	errors.HandleCreated(c, gin.H{
		"user_id": user.ID,
	}, "Registration successful, please check your email")
}

// Login 处理用户登录请求
func (h *AuthHandler) Login(c *gin.Context) {
	var loginData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&loginData); err != nil {
		apiutil.BindError(c, err)
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), loginData.Email, loginData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "Login successful")
}

// Logout 注销当前令牌
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(middleware.TokenFromContext(c)); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "Logged out")
}

// VerifyEmail 处理邮箱验证
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "verification token is required"))
		return
	}

	if err := h.userService.VerifyEmail(c.Request.Context(), token); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "Email verified")
}

// RequestPasswordReset 处理密码重置请求
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var requestData struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&requestData); err != nil {
		apiutil.BindError(c, err)
		return
	}

	if err := h.userService.RequestPasswordReset(c.Request.Context(), requestData.Email); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "If the email is registered, a reset link has been sent")
}

// ResetPassword 处理密码重置
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var resetData struct {
		Token       string `json:"token" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&resetData); err != nil {
		apiutil.BindError(c, err)
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), resetData.Token, resetData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "Password has been reset")
}

// RefreshToken 换发新令牌，旧令牌随即失效
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	newToken, err := h.userService.RefreshToken(middleware.TokenFromContext(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"token": newToken}, "Token refreshed")
}
