package middleware

import (
	"sync"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitor 统计各错误码出现次数，同时转发给 Prometheus
type ErrorMonitor struct {
	errorCounts map[errors.ErrorCode]int
	recorder    metrics.Recorder
	mu          sync.RWMutex
}

func NewErrorMonitor(recorder metrics.Recorder) *ErrorMonitor {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ErrorMonitor{
		errorCounts: make(map[errors.ErrorCode]int),
		recorder:    recorder,
	}
}

func (m *ErrorMonitor) RecordError(err error) {
	code := errors.CodeOf(err)
	m.mu.Lock()
	m.errorCounts[code]++
	m.mu.Unlock()
	m.recorder.RecordErrorCode(int(code))
}

func (m *ErrorMonitor) GetErrorCounts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[errors.ErrorCode]int, len(m.errorCounts))
	for code, count := range m.errorCounts {
		counts[code] = count
	}
	return counts
}

func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.RecordError(e.Err)

			appErr, ok := errors.AsAppError(e.Err)
			if !ok {
				util.Logger.Error("未分类的请求错误",
					zap.Error(e.Err),
					zap.String("path", c.Request.URL.Path))
				continue
			}
			// 5xx 才需要关注内部原因
			if errors.StatusOf(appErr) >= 500 {
				util.Logger.Error("请求处理错误",
					zap.Int("error_code", int(appErr.Code)),
					zap.String("error_message", appErr.Message),
					zap.Error(appErr.Err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))
			} else {
				util.Logger.Debug("请求被拒绝",
					zap.Int("error_code", int(appErr.Code)),
					zap.String("path", c.Request.URL.Path))
			}
		}
	}
}

// RequestMetrics 按方法与状态码统计响应
func RequestMetrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		recorder.RecordHTTPStatus(c.Request.Method, c.Writer.Status())
	}
}
