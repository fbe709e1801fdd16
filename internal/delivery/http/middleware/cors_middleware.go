package middleware

import (
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds CORS headers for the browser frontend.
//
// SECURITY: This middleware is strict about allowed origins:
// - Production: only explicit production domains plus FRONTEND_URL
// - Development: allows localhost (disabled in production)
// - Vercel previews: only clubmatch-* prefixed subdomains
func CORSMiddleware() gin.HandlerFunc {
	isProduction := os.Getenv("GIN_MODE") == "release"
	frontendURL := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Production domains (always allowed)
		productionOrigins := map[string]bool{
			"https://www.clubmatch.io": true,
			"https://clubmatch.io":     true,
		}
		if frontendURL != "" {
			productionOrigins[frontendURL] = true
		}

		// Development domains (only in non-production mode)
		devOrigins := map[string]bool{
			"http://localhost:3000": true,
			"http://127.0.0.1:3000": true,
			"http://localhost:3001": true,
		}

		var isAllowed bool

		if productionOrigins[origin] {
			isAllowed = true
		}

		if !isProduction && devOrigins[origin] {
			isAllowed = true
		}

		// Allow Vercel preview deployments with strict validation.
		// Pattern: clubmatch-*.vercel.app or *-clubmatch-*.vercel.app
		// This prevents malicious-clubmatch.vercel.app type attacks.
		if !isAllowed && strings.HasSuffix(origin, ".vercel.app") {
			subdomain := strings.TrimPrefix(origin, "https://")
			subdomain = strings.TrimSuffix(subdomain, ".vercel.app")

			if strings.HasPrefix(subdomain, "clubmatch") ||
				strings.Contains(subdomain, "-clubmatch-") {
				isAllowed = true
			}
		}

		// Empty origin (same-origin requests) - allow
		if origin == "" {
			isAllowed = true
		}

		// Only set headers if origin is allowed. If not, no CORS headers are
		// sent and the browser blocks the request.
		if isAllowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			c.Header("Access-Control-Max-Age", "86400") // 24 hours
		}

		// Vary header to ensure caches differentiate by Origin
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
