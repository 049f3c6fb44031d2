package bootstrap

import (
	"strings"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/ranking"
	"resume-screener/internal/screener"
	"resume-screener/internal/services/health"
	"resume-screener/internal/sessions"
	"resume-screener/internal/shared/config"
	"resume-screener/internal/shared/server"
	"resume-screener/internal/shared/server/middleware"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Ranker          screener.Ranker
	RankingClient   *ranking.Client
	Sessions        *sessions.Registry
	Health          *health.Service
	ScreenerHandler *screener.Handler
}

// Option adjusts Build, mostly for tests.
type Option func(*buildOptions)

type buildOptions struct {
	ranker  screener.Ranker
	limiter *middleware.RateLimiter
}

// WithRanker replaces the HTTP ranking client.
func WithRanker(r screener.Ranker) Option {
	return func(o *buildOptions) { o.ranker = r }
}

// WithRateLimiter injects a limiter, typically one with a fixed clock.
func WithRateLimiter(l *middleware.RateLimiter) Option {
	return func(o *buildOptions) { o.limiter = l }
}

// Build prepares shared dependencies and the router.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	app := &App{Config: cfg}

	var pinger health.Pinger
	if bo.ranker != nil {
		app.Ranker = bo.ranker
		if p, ok := bo.ranker.(health.Pinger); ok {
			pinger = p
		}
	} else {
		client, err := ranking.NewClient(cfg.RankingServiceURL, cfg.RankingTimeout)
		if err != nil {
			return nil, err
		}
		app.RankingClient = client
		app.Ranker = client
		pinger = client
	}
	app.Health = health.NewService(pinger)

	ranker := app.Ranker
	maxResumes := cfg.MaxResumes
	app.Sessions = sessions.NewRegistry(func(sessionID string) *screener.Orchestrator {
		return screener.New(ranker,
			screener.WithMaxResumes(maxResumes),
			screener.WithLabel(sessionID),
		)
	}, cfg.SessionTTL, nil)

	app.ScreenerHandler = screener.NewHandler(app.Sessions)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Sessions: app.Sessions,
		Screener: app.ScreenerHandler,
		Health:   app.Health,
		Limiter:  bo.limiter,
	})
	return app, nil
}
