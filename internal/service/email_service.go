package service

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"html"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/common"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/repository/interfaces"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

const (
	emailMaxRetries = 3
	emailBackoff    = 2 * time.Second
	emailTokenType  = "email_verification"

	passwordResetTokenType = "password_reset"
	passwordResetTTL       = time.Hour
)

// Mailer 邮件发送能力，异步发送的失败只记录日志
type Mailer interface {
	SendVerificationEmail(email, username string) error
	SendNotificationEmail(to, subject, body string)
	VerifyEmailToken(ctx context.Context, token string) (int, error)
	SendPasswordResetEmail(user *model.User) error
	VerifyPasswordResetToken(ctx context.Context, token string) (*model.User, error)
}

type EmailService struct {
	enabled     bool
	smtpHost    string
	smtpPort    int
	username    string
	password    string
	userRepo    interfaces.UserRepository
	jwtSecret   string
	frontendURL string
	metrics     metrics.Recorder
	send        func(m *mail.Message) error
}

func NewEmailService(userRepo interfaces.UserRepository, recorder metrics.Recorder) *EmailService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	s := &EmailService{
		enabled:     config.AppConfig.EmailEnabled,
		smtpHost:    config.AppConfig.SMTPHost,
		smtpPort:    config.AppConfig.SMTPPort,
		username:    config.AppConfig.SMTPUsername,
		password:    config.AppConfig.SMTPPassword,
		userRepo:    userRepo,
		jwtSecret:   config.AppConfig.JWTSecret,
		frontendURL: config.AppConfig.FrontendURL,
		metrics:     recorder,
	}
	s.send = s.dialAndSend
	return s
}

func (s *EmailService) SendVerificationEmail(email, username string) error {
	token, err := s.generateEmailVerificationToken(email)
	if err != nil {
		util.Logger.Error("生成验证令牌失败", zap.Error(err))
		return fmt.Errorf("生成验证令牌失败: %w", err)
	}

	verificationLink := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, token)

	subject := "Verify your PawPal email"
	body := fmt.Sprintf("Hi %s,<br><br>Please confirm your email address by opening the link below:<br>"+
		"<a href=\"%s\">%s</a><br><br>The link expires in 24 hours.", html.EscapeString(username), verificationLink, verificationLink)

	s.sendEmailAsync(email, subject, body)
	return nil
}

// SendNotificationEmail 异步发送通知邮件
func (s *EmailService) SendNotificationEmail(to, subject, body string) {
	s.sendEmailAsync(to, subject, body)
}

func (s *EmailService) sendEmailAsync(to, subject, body string) {
	go func() {
		if err := s.sendEmail(context.Background(), to, subject, body); err != nil {
			s.metrics.RecordNotificationFailure("email")
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) sendEmail(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		util.Logger.Debug("邮件发送未启用，跳过", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	err := common.WithRetry(ctx, func() error {
		return s.send(m)
	}, emailMaxRetries, emailBackoff)
	if err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

func (s *EmailService) dialAndSend(m *mail.Message) error {
	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}
	return d.DialAndSend(m)
}

func (s *EmailService) generateEmailVerificationToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"type":  emailTokenType,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyEmailToken 校验邮箱验证令牌并返回对应用户 ID
func (s *EmailService) VerifyEmailToken(ctx context.Context, tokenString string) (int, error) {
	claims, err := s.parseTypedToken(tokenString, emailTokenType)
	if err != nil {
		return 0, errors.Wrap(errors.ErrInvalidToken, "invalid verification token", err)
	}

	user, err := s.userForClaims(ctx, claims)
	if err != nil {
		return 0, err
	}
	return user.ID, nil
}

// SendPasswordResetEmail 发送一小时内有效的重置链接。
// 令牌绑定当前密码哈希，密码一旦修改旧链接即失效。
func (s *EmailService) SendPasswordResetEmail(user *model.User) error {
	token, err := s.generatePasswordResetToken(user)
	if err != nil {
		util.Logger.Error("生成密码重置令牌失败", zap.Error(err))
		return fmt.Errorf("生成密码重置令牌失败: %w", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, token)

	subject := "Reset your PawPal password"
	body := fmt.Sprintf("Hi %s,<br><br>We received a request to reset your password. "+
		"Open the link below to choose a new one:<br><a href=\"%s\">%s</a><br><br>"+
		"The link expires in 1 hour. If you did not ask for this, you can ignore this email.",
		html.EscapeString(user.Username), resetLink, resetLink)

	s.sendEmailAsync(user.Email, subject, body)
	return nil
}

func (s *EmailService) generatePasswordResetToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"type":  passwordResetTokenType,
		"pwd":   passwordFingerprint(user.PasswordHash),
		"exp":   time.Now().Add(passwordResetTTL).Unix(),
	})
	return token.SignedString([]byte(s.jwtSecret))
}

// VerifyPasswordResetToken 校验重置令牌，已用过的令牌返回 ErrInvalidToken
func (s *EmailService) VerifyPasswordResetToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := s.parseTypedToken(tokenString, passwordResetTokenType)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidToken, "invalid password reset token", err)
	}

	user, err := s.userForClaims(ctx, claims)
	if err != nil {
		return nil, err
	}

	if fp, _ := claims["pwd"].(string); fp != passwordFingerprint(user.PasswordHash) {
		util.Logger.Warn("密码重置令牌已失效", zap.Int("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidToken, "password reset link has already been used")
	}
	return user, nil
}

func (s *EmailService) parseTypedToken(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		util.Logger.Warn("解析令牌失败", zap.Error(err))
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if t, _ := claims["type"].(string); t != tokenType {
		return nil, fmt.Errorf("unexpected token type %q", t)
	}
	return claims, nil
}

func (s *EmailService) userForClaims(ctx context.Context, claims jwt.MapClaims) (*model.User, error) {
	email, ok := claims["email"].(string)
	if !ok {
		util.Logger.Warn("令牌中缺少邮箱信息")
		return nil, errors.New(errors.ErrInvalidToken, "invalid token")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		util.Logger.Error("查找用户失败", zap.Error(err), zap.String("email", email))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

var _ Mailer = (*EmailService)(nil)
