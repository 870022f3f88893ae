// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.  Collector is the
// Prometheus implementation; Nop discards everything.
type Recorder interface {
	RecordRequest(method, route string, status int, elapsed time.Duration)
	RecordGuardDenial(reason string)
	RecordSignup(role string)
	RecordInquiry()
}

// Collector holds the Prometheus collectors.
type Collector struct {
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	guardDenials *prometheus.CounterVec
	signups      *prometheus.CounterVec
	inquiries    prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homelist_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "homelist_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		guardDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homelist_guard_denials_total",
			Help: "Requests refused by the access guard, by reason.",
		}, []string{"reason"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "homelist_signups_total",
			Help: "Accounts created, by role.",
		}, []string{"role"}),
		inquiries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "homelist_inquiries_total",
			Help: "Buyer inquiries stored.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.guardDenials,
		c.signups,
		c.inquiries,
	)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordGuardDenial(reason string) {
	c.guardDenials.WithLabelValues(reason).Inc()
}

func (c *Collector) RecordSignup(role string) {
	c.signups.WithLabelValues(role).Inc()
}

func (c *Collector) RecordInquiry() {
	c.inquiries.Inc()
}

// Nop is a Recorder that records nothing.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordGuardDenial(string)                         {}
func (Nop) RecordSignup(string)                              {}
func (Nop) RecordInquiry()                                   {}

// Middleware records one request sample per handled request.  The route
// label is echo's route pattern, so /home/1 and /home/2 share a series.
func Middleware(rec Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if !c.Response().Committed {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			rec.RecordRequest(c.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
