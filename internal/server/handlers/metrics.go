package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/internal/server/middlewares"
	"go.uber.org/zap"
)

// HTTPMetricsProvider hands out the request counters kept by the metrics
// middleware.
type HTTPMetricsProvider interface {
	Snapshot() middlewares.HTTPSnapshot
}

// MetricsHandler counts weather API calls and exposes them, together with
// the HTTP counters, in Prometheus text format.
type MetricsHandler struct {
	logger *zap.Logger
	http   HTTPMetricsProvider

	mu     sync.Mutex
	calls  map[string]int64
	errors map[string]int64
}

func NewMetricsHandler(httpMetrics HTTPMetricsProvider, logger *zap.Logger) *MetricsHandler {
	return &MetricsHandler{
		logger: logger,
		http:   httpMetrics,
		calls:  make(map[string]int64),
		errors: make(map[string]int64),
	}
}

// RecordWeatherCall records one call to a weather API endpoint.
func (h *MetricsHandler) RecordWeatherCall(_ context.Context, endpoint string, success bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls[endpoint]++
	if !success {
		h.errors[endpoint]++
	}
}

func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(snap.RequestsTotal) {
			fmt.Fprintf(&b, "http_requests_total{route_status=%q} %d\n", key, snap.RequestsTotal[key])
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		fmt.Fprintf(&b, "http_request_duration_seconds_avg %.6f\n", snap.AvgDuration)

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		fmt.Fprintf(&b, "http_active_requests %d\n\n", snap.ActiveRequests)
	}

	h.mu.Lock()
	b.WriteString("# HELP weather_api_calls_total Total weather API calls\n")
	b.WriteString("# TYPE weather_api_calls_total counter\n")
	for _, endpoint := range sortedKeys(h.calls) {
		fmt.Fprintf(&b, "weather_api_calls_total{endpoint=%q} %d\n", endpoint, h.calls[endpoint])
	}

	b.WriteString("\n# HELP weather_api_errors_total Total failed weather API calls\n")
	b.WriteString("# TYPE weather_api_errors_total counter\n")
	for _, endpoint := range sortedKeys(h.errors) {
		fmt.Fprintf(&b, "weather_api_errors_total{endpoint=%q} %d\n", endpoint, h.errors[endpoint])
	}
	h.mu.Unlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(http.StatusOK, b.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
