package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig 限流参数
type RateLimiterConfig struct {
	Rate            rate.Limit
	Burst           int
	CleanupInterval time.Duration
}

// NewRateLimiterConfig 按每分钟请求数构造配置
func NewRateLimiterConfig(perMinute, burst int) RateLimiterConfig {
	if perMinute <= 0 {
		perMinute = 120
	}
	if burst <= 0 {
		burst = perMinute
	}
	return RateLimiterConfig{
		Rate:            rate.Limit(float64(perMinute) / 60.0),
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter 按用户（未登录时按 IP）限流
type RateLimiter struct {
	config   RateLimiterConfig
	recorder metrics.Recorder

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter 创建限流器并在后台定期清理长时间不活跃的条目
func NewRateLimiter(config RateLimiterConfig, recorder metrics.Recorder) *RateLimiter {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	rl := &RateLimiter{
		config:   config,
		recorder: recorder,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID, ok := UserIDFromContext(c); ok {
			key = "user:" + strconv.Itoa(userID)
		}

		if !rl.limiterFor(key).Allow() {
			rl.recorder.RecordRateLimited()
			util.Logger.Warn("触发限流", zap.String("client", key), zap.String("path", c.Request.URL.Path))

			c.Header("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			errors.HandleError(c, errors.New(errors.ErrTooManyRequests, "Too many requests. Please try again later."))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Count 当前跟踪的客户端数
func (rl *RateLimiter) Count() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if cl, ok := rl.limiters[key]; ok {
		cl.lastAccess = now
		return cl.limiter
	}
	cl := &clientLimiter{
		limiter:    rate.NewLimiter(rl.config.Rate, rl.config.Burst),
		lastAccess: now,
	}
	rl.limiters[key] = cl
	return cl.limiter
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.config.Rate <= 0 {
		return 60
	}
	sec := int(math.Ceil(1.0 / float64(rl.config.Rate)))
	if sec < 1 {
		sec = 1
	}
	return sec
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup 删除超过两个清理周期未访问的条目
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}
