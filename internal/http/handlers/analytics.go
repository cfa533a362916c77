package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{log: log.With("handler", "AnalyticsHandler"), analytics: analytics}
}

// GET /analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	d, err := h.analytics.Dashboard(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, d)
}

// GET /analytics/detailed
func (h *AnalyticsHandler) Detailed(c *gin.Context) {
	d, err := h.analytics.Detailed(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, d)
}
