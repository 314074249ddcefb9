// Package metrics 收集并暴露 Prometheus 指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 服务层与中间件使用的指标接口
type Recorder interface {
	RecordFeedLatency(duration time.Duration)
	RecordFeedFailure()
	RecordApplicationSubmitted()
	RecordApplicationTransition(status string, cascadeRejected int)
	RecordNotificationFailure(kind string)
	RecordHTTPStatus(method string, statusCode int)
	RecordErrorCode(code int)
	RecordRateLimited()
}

// Collector 基于 Prometheus 的实现
type Collector struct {
	feedLatency           prometheus.Histogram
	feedFailures          prometheus.Counter
	applicationsSubmitted prometheus.Counter
	transitions           *prometheus.CounterVec
	cascadeRejections     prometheus.Counter
	notificationFailures  *prometheus.CounterVec
	httpStatus            *prometheus.CounterVec
	errorCodes            *prometheus.CounterVec
	rateLimited           prometheus.Counter
}

// NewCollector 创建 Collector 并注册到 reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		feedLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pawpal_feed_latency_seconds",
			Help:    "信息流查询与排序耗时（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		feedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_feed_failures_total",
			Help: "信息流查询失败次数",
		}),
		applicationsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_adoption_applications_submitted_total",
			Help: "提交的领养申请数",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_adoption_transitions_total",
			Help: "领养申请状态迁移次数",
		}, []string{"status"}),
		cascadeRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_adoption_cascade_rejections_total",
			Help: "批准时被连带拒绝的申请数",
		}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_notification_failures_total",
			Help: "通知发送失败次数",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_http_responses_total",
			Help: "按方法与状态码统计的响应数",
		}, []string{"method", "status_code"}),
		errorCodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawpal_error_codes_total",
			Help: "按业务错误码统计的错误数",
		}, []string{"code"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawpal_rate_limited_total",
			Help: "被限流拒绝的请求数",
		}),
	}

	reg.MustRegister(
		c.feedLatency,
		c.feedFailures,
		c.applicationsSubmitted,
		c.transitions,
		c.cascadeRejections,
		c.notificationFailures,
		c.httpStatus,
		c.errorCodes,
		c.rateLimited,
	)

	return c
}

func (c *Collector) RecordFeedLatency(duration time.Duration) {
	c.feedLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordFeedFailure() {
	c.feedFailures.Inc()
}

func (c *Collector) RecordApplicationSubmitted() {
	c.applicationsSubmitted.Inc()
}

// RecordApplicationTransition 记录一次状态迁移及其连带拒绝数
func (c *Collector) RecordApplicationTransition(status string, cascadeRejected int) {
	c.transitions.WithLabelValues(status).Inc()
	if cascadeRejected > 0 {
		c.cascadeRejections.Add(float64(cascadeRejected))
	}
}

func (c *Collector) RecordNotificationFailure(kind string) {
	c.notificationFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordHTTPStatus(method string, statusCode int) {
	c.httpStatus.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordErrorCode(code int) {
	c.errorCodes.WithLabelValues(strconv.Itoa(code)).Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// ErrorCodeCounter 返回指定错误码的计数器
func (c *Collector) ErrorCodeCounter(code int) prometheus.Counter {
	return c.errorCodes.WithLabelValues(strconv.Itoa(code))
}

func (c *Collector) HTTPStatusCounter(method string, statusCode int) prometheus.Counter {
	return c.httpStatus.WithLabelValues(method, strconv.Itoa(statusCode))
}

func (c *Collector) RateLimitedCounter() prometheus.Counter {
	return c.rateLimited
}

// Handler 返回 Prometheus 抓取用的 HTTP handler
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop 不做任何记录，供测试与未启用指标时使用
type Nop struct{}

func (Nop) RecordFeedLatency(time.Duration) {}
func (Nop) RecordFeedFailure() {}
func (Nop) RecordApplicationSubmitted() {}
func (Nop) RecordApplicationTransition(string, int) {}
func (Nop) RecordNotificationFailure(string) {}
func (Nop) RecordHTTPStatus(string, int) {}
func (Nop) RecordErrorCode(int) {}
func (Nop) RecordRateLimited() {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)
