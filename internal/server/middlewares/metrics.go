package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const maxDurations = 1000

// HTTPSnapshot is a point-in-time copy of the request counters.
type HTTPSnapshot struct {
	RequestsTotal  map[string]int64
	AvgDuration    float64
	ActiveRequests int64
}

// HTTPMetrics counts requests per "METHOD route status" and keeps the
// latest durations for an average.
type HTTPMetrics struct {
	mu             sync.Mutex
	requestsTotal  map[string]int64
	durations      []float64
	activeRequests int64
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{requestsTotal: make(map[string]int64)}
}

func (m *HTTPMetrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.activeRequests++
		m.mu.Unlock()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		key := c.Request.Method + " " + route + " " + strconv.Itoa(c.Writer.Status())

		m.mu.Lock()
		defer m.mu.Unlock()
		m.activeRequests--
		m.requestsTotal[key]++
		m.durations = append(m.durations, time.Since(start).Seconds())
		if len(m.durations) > maxDurations {
			m.durations = m.durations[len(m.durations)-maxDurations:]
		}
	}
}

func (m *HTTPMetrics) Snapshot() HTTPSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := HTTPSnapshot{
		RequestsTotal:  make(map[string]int64, len(m.requestsTotal)),
		ActiveRequests: m.activeRequests,
	}
	for k, v := range m.requestsTotal {
		snap.RequestsTotal[k] = v
	}
	if len(m.durations) > 0 {
		sum := 0.0
		for _, d := range m.durations {
			sum += d
		}
		snap.AvgDuration = sum / float64(len(m.durations))
	}
	return snap
}
