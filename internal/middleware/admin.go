package middleware

import (
	"context"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserLookup 按 ID 读取用户
type UserLookup interface {
	GetUserByID(ctx context.Context, id int) (*model.User, error)
}

// RequireAction 只放行策略表允许执行 action 的用户，须放在 AuthMiddleware 之后
func RequireAction(users UserLookup, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			util.Logger.Warn("用户ID不存在", zap.String("path", c.Request.URL.Path))
			errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			c.Abort()
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, errors.ErrUserNotFound) {
				errors.HandleError(c, errors.New(errors.ErrUnauthorized, "authentication required"))
			} else {
				errors.HandleError(c, err)
			}
			c.Abort()
			return
		}

		if err := policy.Authorize(user, action, nil); err != nil {
			util.Logger.Warn("权限不足",
				zap.Int("user_id", userID),
				zap.String("action", string(action)))
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// AdminMiddleware 管理后台入口
func AdminMiddleware(users UserLookup) gin.HandlerFunc {
	return RequireAction(users, policy.ActionManageUsers)
}
