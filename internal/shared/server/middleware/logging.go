package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/telemetry"
)

// Logging emits a structured log per request. Handlers may set "submitToken"
// and "statusTransition" to enrich the line.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		submitToken, _ := c.Get("submitToken")
		statusTransition := ""
		if raw, ok := c.Get("statusTransition"); ok {
			if s, ok := raw.(string); ok {
				statusTransition = s
			}
		}

		telemetry.Info("request.complete", map[string]any{
			"request_id":        RequestIDFromContext(c),
			"session_id":        SessionIDFromContext(c),
			"method":            c.Request.Method,
			"path":              c.Request.URL.Path,
			"route":             c.FullPath(),
			"status":            c.Writer.Status(),
			"status_transition": statusTransition,
			"submit_token":      submitToken,
			"duration_ms":       float64(latency.Microseconds()) / 1000.0,
			"client_ip":         c.ClientIP(),
			"user_agent":        c.Request.UserAgent(),
		})
	}
}
