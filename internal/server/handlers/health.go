package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the durable store can be reached.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store     Pinger
	logger    *zap.Logger
	startTime time.Time
}

func NewHealthHandler(store Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:     store,
		logger:    logger,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

// Readiness fails while the store is unreachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Storage not ready", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			Uptime:  time.Since(h.startTime).String(),
			Storage: "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ready",
		Uptime:  time.Since(h.startTime).String(),
		Storage: "ok",
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	status, storage := "ok", "ok"
	if err := h.store.Ping(c.Request.Context()); err != nil {
		status, storage = "degraded", "unreachable"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Storage:   storage,
	})
}
