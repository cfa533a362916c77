package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const notAuthorized = "Not authorized to access this route"

// TokenAuthenticator resolves a bearer token to the calling user.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, tokenString string) (types.Principal, error)
}

type AuthMiddleware struct {
	log  *logger.Logger
	auth TokenAuthenticator
}

func NewAuthMiddleware(log *logger.Logger, auth TokenAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), auth: auth}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", notAuthorized)
			return
		}
		p, err := am.auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if ae, ok := apierr.As(err); ok && ae.Status == http.StatusUnauthorized {
				am.log.Debug("token rejected", "error", ae.Err)
				response.RespondError(c, http.StatusUnauthorized, "unauthorized", notAuthorized)
				return
			}
			response.RespondErr(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole admits principals whose role is in roles; others get 403 with message.
func (am *AuthMiddleware) RequireRole(message string, roles ...types.Role) gin.HandlerFunc {
	if message == "" {
		message = notAuthorized
	}
	return func(c *gin.Context) {
		p, ok := ctxutil.GetPrincipal(c.Request.Context())
		if !ok {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", notAuthorized)
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		response.RespondError(c, http.StatusForbidden, "forbidden", message)
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
