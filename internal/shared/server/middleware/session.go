package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/shared/server/respond"
)

const (
	sessionIDKey      = "sessionId"
	sessionCreatedKey = "sessionCreated"

	// SessionCookie carries the browser's session id.
	SessionCookie = "screener_session"
	// SessionHeader lets API clients pin a session without cookies.
	SessionHeader = "X-Session-Id"

	sessionCreateGroup = "SESSION_CREATE"
)

// SessionResolver maps a presented session id to a live one, starting a new
// session when the presented id is empty or unknown.
type SessionResolver interface {
	Known(id string) bool
	Resolve(id string) (sessionID string, created bool)
}

// SessionOptions tunes the session cookie and how fast one client IP may
// start new sessions. A nil Limiter or zero CreateRule leaves creation open.
type SessionOptions struct {
	MaxAgeSeconds int
	Secure        bool
	Limiter       *RateLimiter
	CreateRule    RateLimitRule
}

// Session resolves the caller's session and stores its id in context. The
// cookie is reissued on every request so its lifetime tracks activity.
func Session(resolver SessionResolver, opts SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		presented := strings.TrimSpace(c.GetHeader(SessionHeader))
		if presented == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				presented = strings.TrimSpace(cookie)
			}
		}

		if opts.Limiter != nil && !resolver.Known(presented) {
			allowed, wait := opts.Limiter.Allow(c.ClientIP()+"|"+sessionCreateGroup, opts.CreateRule)
			if !allowed {
				waitMs := wait.Milliseconds()
				if waitMs <= 0 {
					waitMs = 1000
				}
				c.Header("Retry-After", strconv.FormatInt((waitMs+999)/1000, 10))
				respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Too many new sessions", gin.H{
					"retryAfterMs": waitMs,
				})
				return
			}
		}

		id, created := resolver.Resolve(presented)
		c.Set(sessionIDKey, id)
		if created {
			c.Set(sessionCreatedKey, true)
		}
		c.Writer.Header().Set(SessionHeader, id)
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   opts.MaxAgeSeconds,
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Next()
	}
}

// SessionIDFromContext fetches the session id stored by Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SessionCreated reports whether Session started a new session for this request.
func SessionCreated(c *gin.Context) bool {
	return c != nil && c.GetBool(sessionCreatedKey)
}
