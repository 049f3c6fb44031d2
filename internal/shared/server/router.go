package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/screener"
	"resume-screener/internal/services/health"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
)

var submitRoutes = map[string]bool{
	"/api/v1/screener/submit": true,
	"/submit":                 true,
}

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config   config.Config
	Sessions middleware.SessionResolver
	Screener *screener.Handler
	Health   *health.Service
	// Limiter is optional; tests inject one with a fixed clock.
	Limiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(screener.Templates())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/metrics", metrics.Handler())

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	r.GET("/api/v1/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	r.GET("/api/v1/health/ready", func(c *gin.Context) {
		payload, ok := healthSvc.Ready(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(nil)
	}
	stateful := r.Group("/")
	stateful.Use(
		middleware.Session(deps.Sessions, middleware.SessionOptions{
			MaxAgeSeconds: int(deps.Config.SessionTTL.Seconds()),
			Secure:        deps.Config.Env == "production",
			Limiter:       limiter,
			CreateRule:    perMinuteRule(deps.Config.SessionCreatePerMin, 2),
		}),
		middleware.RateLimit(middleware.RateLimitConfig{
			DefaultGroup: "DEFAULT",
			GroupFor:     rateLimitGroup,
			Limiter:      limiter,
			Rules:        rateLimitRules(deps.Config),
		}),
	)

	if deps.Screener != nil {
		deps.Screener.RegisterPages(stateful)
		deps.Screener.RegisterRoutes(stateful.Group("/api/v1"))
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && submitRoutes[c.FullPath()] {
		return "SUBMIT"
	}
	return "DEFAULT"
}

func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rules := map[string]middleware.RateLimitRule{
		"DEFAULT": {Rate: 10, Burst: 40},
	}
	if cfg.SubmitRatePerMin > 0 {
		rules["SUBMIT"] = perMinuteRule(cfg.SubmitRatePerMin, 6)
	}
	return rules
}

// perMinuteRule spreads perMin over a minute with a burst of perMin/burstDiv,
// at least one. A zero perMin yields an unlimited rule.
func perMinuteRule(perMin, burstDiv int) middleware.RateLimitRule {
	if perMin <= 0 {
		return middleware.RateLimitRule{}
	}
	burst := perMin / burstDiv
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimitRule{Rate: float64(perMin) / 60.0, Burst: burst}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
