package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextToken  = "token"
	ContextUser   = "user"
)

// TokenRevocation 查询令牌是否已被注销
type TokenRevocation interface {
	IsTokenBlacklisted(token string) bool
}

func AuthMiddleware(revocation TokenRevocation) gin.HandlerFunc {
	return func(c *gin.Context) {
		util.Logger.Debug("进入认证中间件",
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		token, ok := bearerToken(c)
		if !ok {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		if revocation.IsTokenBlacklisted(token) {
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "token has been revoked"))
			c.Abort()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			errors.HandleError(c, errors.Wrap(errors.ErrInvalidToken, "invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextToken, token)

		select {
		case <-ctx.Done():
			errors.HandleError(c, errors.New(errors.ErrTimeout, "request timed out"))
			c.Abort()
			return
		default:
			c.Next()
		}
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// UserIDFromContext 取出 AuthMiddleware 写入的用户 ID
func UserIDFromContext(c *gin.Context) (int, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// TokenFromContext 取出当前请求携带的令牌
func TokenFromContext(c *gin.Context) string {
	return c.GetString(ContextToken)
}
