package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type stubResolver struct {
	known map[string]bool
	next  string
}

func (s stubResolver) Known(id string) bool { return s.known[id] }

func (s stubResolver) Resolve(id string) (string, bool) {
	if s.known[id] {
		return id, false
	}
	return s.next, true
}

func sessionRouter(resolver SessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(resolver, SessionOptions{MaxAgeSeconds: 60}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionIDFromContext(c))
	})
	return r
}

func TestSessionIssuesCookieForNewVisitor(t *testing.T) {
	r := sessionRouter(stubResolver{next: "fresh"})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Body.String() != "fresh" {
		t.Fatalf("expected session id in context, got %q", resp.Body.String())
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || cookies[0].Value != "fresh" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatalf("expected HttpOnly cookie")
	}
}

func TestSessionReusesKnownCookie(t *testing.T) {
	r := sessionRouter(stubResolver{known: map[string]bool{"abc": true}, next: "fresh"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Body.String() != "abc" {
		t.Fatalf("expected known session, got %q", resp.Body.String())
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "abc" || cookies[0].MaxAge != 60 {
		t.Fatalf("expected cookie refreshed with same id, got %+v", cookies)
	}
}

func TestSessionHeaderWinsOverCookie(t *testing.T) {
	r := sessionRouter(stubResolver{known: map[string]bool{"abc": true, "hdr": true}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "abc"})
	req.Header.Set(SessionHeader, "hdr")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Body.String() != "hdr" {
		t.Fatalf("expected header session, got %q", resp.Body.String())
	}
	if got := resp.Header().Get(SessionHeader); got != "hdr" {
		t.Fatalf("expected session header echoed, got %q", got)
	}
}

func TestSessionCreationIsLimitedPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := gin.New()
	r.Use(Session(stubResolver{known: map[string]bool{"abc": true}, next: "fresh"}, SessionOptions{
		Limiter:    NewRateLimiter(func() time.Time { return fixed }),
		CreateRule: RateLimitRule{Rate: 1, Burst: 2},
	}))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, SessionIDFromContext(c))
	})

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("new session %d: expected 200, got %d", i, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once creation budget is spent, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(SessionHeader, "abc")
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK || resp.Body.String() != "abc" {
			t.Fatalf("known session should not be limited, got %d %q", resp.Code, resp.Body.String())
		}
	}
}
