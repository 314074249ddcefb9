package service

import (
	"context"
	"strings"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo interfaces.UserRepository
	mailer   Mailer
	// 已注销的令牌，保留到令牌本身过期
	tokenBlacklist *cache.Cache
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, mailer Mailer) *UserService {
	ttl := config.AppConfig.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UserService{
		userRepo:       userRepo,
		mailer:         mailer,
		tokenBlacklist: cache.New(ttl, 10*time.Minute),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, "failed to check username", err)
	}
	return user != nil, nil
}

// Register 注册新用户，验证邮件发送失败不影响注册
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if len(password) < minPasswordLength {
		return nil, errors.New(errors.ErrWeakPassword, "password must be at least 8 characters")
	}

	taken, err := s.IsUsernameTaken(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.New(errors.ErrUserExists, "username already exists")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to check email", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrUserExists, "email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}

	user := &model.User{
		Username:          username,
		Email:             email,
		PasswordHash:      string(hashedPassword),
		Role:              model.RoleUser,
		VerificationLevel: model.LevelBasic,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("username", username))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create user", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(user.Email, user.Username); err != nil {
			util.Logger.Error("发送验证邮件失败", zap.Error(err), zap.Int("user_id", user.ID))
		}
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID))
	return user, nil
}

// Login 校验邮箱和密码并签发令牌
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		util.Logger.Info("用户登录失败，未找到用户", zap.String("email", email))
		return nil, "", errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Info("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, "", errors.New(errors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrInternal, "failed to generate token", err)
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, token, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile 只更新允许修改的字段
func (s *UserService) UpdateProfile(ctx context.Context, userID int, username, bio string) (*model.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username = strings.TrimSpace(username)
	if username != "" && username != user.Username {
		taken, err := s.IsUsernameTaken(ctx, username)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errors.New(errors.ErrUserExists, "username already exists")
		}
		user.Username = username
	}
	user.Bio = bio

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to update user", err)
	}
	return user, nil
}

// UpdateAvatar 更新用户头像
func (s *UserService) UpdateAvatar(ctx context.Context, userID int, avatarURL string) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	user.AvatarURL = avatarURL
	if err := s.userRepo.Update(ctx, user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update avatar", err)
	}
	return nil
}

// VerifyEmail 处理邮件中的验证链接
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.mailer.VerifyEmailToken(ctx, token)
	if err != nil {
		util.Logger.Warn("验证邮箱令牌失败", zap.Error(err))
		return err
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return errors.New(errors.ErrResourceExists, "email already verified")
	}

	if err := s.userRepo.MarkEmailVerified(ctx, userID); err != nil {
		util.Logger.Error("更新用户验证状态失败", zap.Error(err), zap.Int("user_id", userID))
		return errors.Wrap(errors.ErrDatabase, "failed to verify email", err)
	}

	util.Logger.Info("邮箱验证成功", zap.Int("user_id", userID))
	return nil
}

// RequestPasswordReset 邮箱未注册时同样返回成功，不暴露账号是否存在
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		util.Logger.Info("密码重置请求的邮箱未注册", zap.String("email", email))
		return nil
	}

	if err := s.mailer.SendPasswordResetEmail(user); err != nil {
		util.Logger.Error("发送密码重置邮件失败", zap.Error(err), zap.Int("user_id", user.ID))
		return errors.Wrap(errors.ErrInternal, "failed to send password reset email", err)
	}
	return nil
}

// ResetPassword 用重置令牌设置新密码
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return errors.New(errors.ErrWeakPassword, "password must be at least 8 characters")
	}

	user, err := s.mailer.VerifyPasswordResetToken(ctx, token)
	if err != nil {
		util.Logger.Warn("验证密码重置令牌失败", zap.Error(err))
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(errors.ErrInternal, "failed to hash password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hashedPassword)); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update password", err)
	}

	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// Logout 把令牌加入黑名单直到它过期
func (s *UserService) Logout(token string) error {
	claims, err := util.ParseToken(token)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidToken, "invalid token", err)
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	s.tokenBlacklist.Set(token, claims.UserID, ttl)
	util.Logger.Info("用户注销，令牌已加入黑名单", zap.Int("user_id", claims.UserID))
	return nil
}

func (s *UserService) IsTokenBlacklisted(token string) bool {
	_, found := s.tokenBlacklist.Get(token)
	return found
}

// RefreshToken 用未撤销的旧令牌换新令牌，旧令牌随即失效
func (s *UserService) RefreshToken(token string) (string, error) {
	if s.IsTokenBlacklisted(token) {
		return "", errors.New(errors.ErrInvalidToken, "token has been revoked")
	}
	newToken, err := util.RefreshToken(token)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidToken, "invalid token", err)
	}
	if err := s.Logout(token); err != nil {
		return "", err
	}
	return newToken, nil
}

func (s *UserService) IsAdmin(ctx context.Context, userID int) (bool, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == model.RoleAdmin, nil
}

func (s *UserService) GetUsers(ctx context.Context, page, pageSize int) ([]*model.User, error) {
	users, err := s.userRepo.FindAll(ctx, page, pageSize)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list users", err)
	}
	return users, nil
}

type UserServiceInterface interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int, username, bio string) (*model.User, error)
	UpdateAvatar(ctx context.Context, userID int, avatarURL string) error
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
	RefreshToken(token string) (string, error)
	GetUsers(ctx context.Context, page, pageSize int) ([]*model.User, error)
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
