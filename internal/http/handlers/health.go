package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler takes an optional database ping used by the JSON health route.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	db := "ok"
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			db = "unavailable"
		}
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "database": db, "time": time.Now().UTC()})
}
