package middleware

import (
	"os"
	"strings"

	"recruitment-portal-backend/config"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the portal frontend to call the API cross-origin.
//
// The whitelist is strict: the configured frontend origin always, localhost
// only outside release mode. Unlisted origins get no CORS headers at all, so
// the browser blocks the response.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	isProduction := os.Getenv("GIN_MODE") == "release"

	devOrigins := map[string]bool{
		"http://localhost:3000": true,
		"http://127.0.0.1:3000": true,
		"http://localhost:3001": true,
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		var isAllowed bool
		switch {
		case origin == "":
			// Same-origin and server-to-server requests
			isAllowed = true
		case origin == cfg.FrontendURL:
			isAllowed = true
		case !isProduction && devOrigins[origin]:
			isAllowed = true
		case strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".vercel.app"):
			// Preview deployments of the portal frontend only
			subdomain := strings.TrimSuffix(strings.TrimPrefix(origin, "https://"), ".vercel.app")
			isAllowed = strings.HasPrefix(subdomain, "portal") || strings.Contains(subdomain, "-portal-")
		}

		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400")
		}

		c.Header("Vary", "Origin")

		if c.Request.Method == "OPTIONS" {
			if isAllowed {
				c.AbortWithStatus(204)
			} else {
				c.AbortWithStatus(403)
			}
			return
		}

		c.Next()
	}
}
