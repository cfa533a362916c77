package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
	maxRequestIDLen = 128
)

// AttachTraceContext assigns request and trace ids, preferring the active
// OpenTelemetry span over client-sent trace headers.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.NewString()
		}
		var traceID string
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}
		if traceID == "" {
			traceID = strings.TrimSpace(c.GetHeader(headerTraceID))
		}
		if traceID == "" || len(traceID) > maxRequestIDLen {
			traceID = uuid.NewString()
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		c.Header(headerTraceID, traceID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}
