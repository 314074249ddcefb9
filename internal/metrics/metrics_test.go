package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordApplicationTransition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordApplicationTransition("APPROVED", 2)
	c.RecordApplicationTransition("REJECTED", 0)
	c.RecordApplicationTransition("APPROVED", 1)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.transitions.WithLabelValues("APPROVED")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.transitions.WithLabelValues("REJECTED")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.cascadeRejections))
}

func TestRecordCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordFeedFailure()
	c.RecordApplicationSubmitted()
	c.RecordNotificationFailure("email")
	c.RecordHTTPStatus(http.MethodGet, 404)
	c.RecordErrorCode(4008)
	c.RecordRateLimited()
	c.RecordFeedLatency(20 * time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(c.feedFailures))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.applicationsSubmitted))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.notificationFailures.WithLabelValues("email")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.httpStatus.WithLabelValues("GET", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errorCodes.WithLabelValues("4008")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.rateLimited))
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordApplicationSubmitted()

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Result().Body)
	assert.True(t, strings.Contains(string(body), "pawpal_adoption_applications_submitted_total"))
}
