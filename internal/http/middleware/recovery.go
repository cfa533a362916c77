package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// Recovery converts panics into the generic 500 envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic recovered",
				"path", c.Request.URL.Path,
				"panic", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
		}
		if c.Writer.Written() {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		response.RespondErr(c, apierr.Internal(fmt.Errorf("panic: %v", recovered)))
	})
}
