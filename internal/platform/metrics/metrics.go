// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what the usecases report to. Use Noop when metrics are disabled.
type Recorder interface {
	RecordCompletion(provider string, d time.Duration, err error)
	RecordOTPIssued()
}

// Collector is the Prometheus implementation of Recorder plus HTTP metrics.
type Collector struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	completions        *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	otpIssued          prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planner_completions_total",
			Help: "Completion requests by provider and result",
		}, []string{"provider", "result"}),
		completionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "planner_completion_duration_seconds",
			Help:    "Upstream completion latency in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		otpIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planner_otp_issued_total",
			Help: "Number of one-time passcodes issued",
		}),
	}

	reg.MustRegister(c.httpRequests, c.httpDuration, c.completions, c.completionDuration, c.otpIssued)
	return c
}

// RecordCompletion records one upstream completion call.
func (c *Collector) RecordCompletion(provider string, d time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.completions.WithLabelValues(provider, result).Inc()
	c.completionDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordOTPIssued records one issued OTP.
func (c *Collector) RecordOTPIssued() {
	c.otpIssued.Inc()
}

// GinMiddleware records request counts and latency per route.
func (c *Collector) GinMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		c.httpRequests.WithLabelValues(ctx.Request.Method, path, strconv.Itoa(ctx.Writer.Status())).Inc()
		c.httpDuration.WithLabelValues(ctx.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Setup returns the recorder the usecases report to, plus the collector and
// registry that back the HTTP middleware and /metrics. When disabled, the
// recorder is Noop and the collector and registry are nil.
func Setup(enabled bool) (Recorder, *Collector, *prometheus.Registry) {
	if !enabled {
		return Noop{}, nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c := NewCollector(reg)
	return c, c, reg
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordCompletion(string, time.Duration, error) {}
func (Noop) RecordOTPIssued()                              {}
