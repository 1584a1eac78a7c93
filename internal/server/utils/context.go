package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-lookup/pkg/logger"
)

const (
	SpanContextKey = "span_context"
	RequestIDKey   = "request_id"
)

// GetContextFromGinContext returns the traced context when the telemetry
// middleware stored one, else the request context.
func GetContextFromGinContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if spanCtx, exists := c.Get(SpanContextKey); exists {
		if sc, ok := spanCtx.(context.Context); ok {
			ctx = sc
		}
	}
	if id := GetRequestIDFromGinContext(c); id != "" {
		ctx = logger.WithRequestID(ctx, id)
	}
	return ctx
}

func GetRequestIDFromGinContext(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}
