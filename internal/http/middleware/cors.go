package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const defaultOrigin = "http://localhost:3000"

type CORSConfig struct {
	AllowedOrigins []string
	// AllowAll admits any origin; used outside production.
	AllowAll bool
}

func CORS(cfg CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id", "X-Trace-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.AllowAll {
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = dedupeOrigins(cfg.AllowedOrigins)
		if len(c.AllowOrigins) == 0 {
			c.AllowOrigins = []string{defaultOrigin}
		}
	}
	return cors.New(c)
}

func dedupeOrigins(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, o := range in {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}
