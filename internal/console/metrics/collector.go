// Package metrics exports Prometheus metrics for the console.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "guardroster"

// Collector collects backend API and console HTTP metrics.
type Collector struct {
	registry *prometheus.Registry

	// Backend API metrics
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// Console metrics
	httpRequestsTotal *prometheus.CounterVec
	statusChanges     *prometheus.CounterVec
	exports           *prometheus.CounterVec
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		apiRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Requests sent to the registry backend",
		}, []string{"entity", "operation", "outcome"}),
		apiRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of registry backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "operation"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Console HTTP requests",
		}, []string{"method", "route", "code"}),
		statusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Status changes saved through the console",
		}, []string{"entity", "outcome"}),
		exports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Spreadsheet exports served",
		}, []string{"entity"}),
	}
}

// ObserveRequest records one backend call.
func (c *Collector) ObserveRequest(entity, operation string, status int, err error, took time.Duration) {
	c.apiRequestsTotal.WithLabelValues(entity, operation, outcome(status, err)).Inc()
	c.apiRequestDuration.WithLabelValues(entity, operation).Observe(took.Seconds())
}

func (c *Collector) StatusChanged(entity string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	c.statusChanges.WithLabelValues(entity, result).Inc()
}

func (c *Collector) Exported(entity string) {
	c.exports.WithLabelValues(entity).Inc()
}

func outcome(status int, err error) string {
	switch {
	case status == 0 && err != nil:
		return "transport_error"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	}
	return "success"
}

// Middleware counts console requests by route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

// Handler serves the collected metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }
