package middleware

import (
	"runtime/debug"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				util.Logger.Error("发生panic",
					zap.Any("error", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("stack", string(debug.Stack())))

				errors.HandleError(c, errors.New(errors.ErrInternal, "Internal Server Error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
