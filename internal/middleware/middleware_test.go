package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HanniPham13/PawPalAPI-sub000/config"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/errors"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/metrics"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/model"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/policy"
	"github.com/HanniPham13/PawPalAPI-sub000/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "middleware-test-secret"
	config.AppConfig.TokenTTL = time.Hour
}

type revokedSet map[string]bool

func (r revokedSet) IsTokenBlacklisted(token string) bool { return r[token] }

type userTable map[int]*model.User

func (u userTable) GetUserByID(_ context.Context, id int) (*model.User, error) {
	if user, ok := u[id]; ok {
		return user, nil
	}
	return nil, errors.New(errors.ErrUserNotFound, "user not found")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) errors.ErrorResponse {
	var body errors.ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func authRouter(revoked revokedSet) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(revoked), func(c *gin.Context) {
		id, _ := UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	token, err := util.GenerateToken(42)
	assert.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			authRouter(revokedSet{}).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	token, _ := util.GenerateToken(42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(revokedSet{token: true}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token has been revoked", decode(t, w).Message)
}

func TestRequireAction(t *testing.T) {
	users := userTable{
		1: {ID: 1, Role: model.RoleUser},
		2: {ID: 2, Role: model.RoleAdmin},
	}

	run := func(userID int) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/admin", func(c *gin.Context) {
			if userID > 0 {
				c.Set(ContextUserID, userID)
			}
			c.Next()
		}, RequireAction(users, policy.ActionViewStats), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/admin", nil)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, run(0).Code)
	assert.Equal(t, http.StatusForbidden, run(1).Code)
	assert.Equal(t, http.StatusNoContent, run(2).Code)
	assert.Equal(t, http.StatusUnauthorized, run(99).Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		panic("kaboom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, errors.ErrInternal, body.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestErrorMonitorAndRequestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	monitor := NewErrorMonitor(collector)

	r := gin.New()
	r.Use(RequestMetrics(collector), ErrorMonitorMiddleware(monitor))
	r.GET("/missing", func(c *gin.Context) {
		errors.HandleError(c, errors.New(errors.ErrPostNotFound, "post not found"))
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/missing", nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, 2, monitor.GetErrorCounts()[errors.ErrPostNotFound])
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.ErrorCodeCounter(int(errors.ErrPostNotFound))))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.HTTPStatusCounter(http.MethodGet, http.StatusNotFound)))
}

func TestRateLimiter(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, CleanupInterval: time.Minute}, collector)
	defer rl.Stop()

	r := gin.New()
	r.GET("/ping", func(c *gin.Context) {
		c.Set(ContextUserID, 7)
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", w.Header().Get("Retry-After"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RateLimitedCounter()))
	assert.Equal(t, 1, rl.Count())
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Minute}, nil)
	defer rl.Stop()

	rl.limiterFor("user:1")
	rl.limiterFor("user:2")
	assert.Equal(t, 2, rl.Count())

	rl.cleanup(time.Now().Add(3 * time.Minute))
	assert.Equal(t, 0, rl.Count())
}

func TestNewRateLimiterConfig(t *testing.T) {
	cfg := NewRateLimiterConfig(120, 0)
	assert.InDelta(t, 2.0, float64(cfg.Rate), 1e-9)
	assert.Equal(t, 120, cfg.Burst)
}
