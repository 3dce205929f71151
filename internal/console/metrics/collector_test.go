package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("companies", "list", 200, nil, 30*time.Millisecond)
	c.ObserveRequest("companies", "list", 500, errors.New("boom"), time.Millisecond)
	c.ObserveRequest("companies", "list", 0, errors.New("dial"), time.Millisecond)
	c.ObserveRequest("guards", "create", 400, errors.New("bad"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.apiRequestsTotal.WithLabelValues("companies", "list", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.apiRequestsTotal.WithLabelValues("companies", "list", "server_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.apiRequestsTotal.WithLabelValues("companies", "list", "transport_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.apiRequestsTotal.WithLabelValues("guards", "create", "client_error")))
}

func TestCollector_HandlerAndMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()
	c.StatusChanged("firearms", nil)
	c.Exported("guards")

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/metrics", gin.WrapH(c.Handler()))
	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `guardroster_http_requests_total{code="200",method="GET",route="/ping"} 1`))
	assert.True(t, strings.Contains(body, `guardroster_status_changes_total{entity="firearms",outcome="success"} 1`))
	assert.True(t, strings.Contains(body, `guardroster_exports_total{entity="guards"} 1`))
}
