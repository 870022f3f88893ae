package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue returns the value of the series of name whose labels match.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestGuardDenialsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordGuardDenial("no_identity")
	c.RecordGuardDenial("no_identity")
	c.RecordGuardDenial("role")

	assert.Equal(t, 2.0, counterValue(t, reg, "homelist_guard_denials_total", map[string]string{"reason": "no_identity"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "homelist_guard_denials_total", map[string]string{"reason": "role"}))
}

func TestSignupsAndInquiries(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignup("BUYER")
	c.RecordInquiry()
	c.RecordInquiry()

	assert.Equal(t, 1.0, counterValue(t, reg, "homelist_signups_total", map[string]string{"role": "BUYER"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "homelist_inquiries_total", nil))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	e := echo.New()
	e.Use(Middleware(c))
	e.GET("/home/:id", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	for _, path := range []string{"/home/1", "/home/2", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "homelist_http_requests_total",
		map[string]string{"route": "/home/:id", "status": "200"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "homelist_http_requests_total",
		map[string]string{"route": "/boom", "status": "500"}))
}

func TestHandlerServesExposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest(http.MethodGet, "/home", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "homelist_http_request_duration_seconds")
}
