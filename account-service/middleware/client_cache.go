package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientCacheMiddleware lets clients cache successful GET responses for maxAge seconds.
// Requests carrying Authorization get a private directive so shared caches never keep
// one caller's response. Handlers that set their own Cache-Control keep it.
func ClientCacheMiddleware(maxAge int) gin.HandlerFunc {
	public := fmt.Sprintf("public, max-age=%d", maxAge)
	private := fmt.Sprintf("private, max-age=%d", maxAge)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet && maxAge > 0 {
			if c.GetHeader("Authorization") != "" {
				c.Header("Cache-Control", private)
			} else {
				c.Header("Cache-Control", public)
			}
		}
		c.Next()
	}
}

// NoStore marks responses carrying credentials as uncacheable
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
