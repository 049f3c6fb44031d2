package health

import (
	"context"
	"time"
)

// Pinger checks a dependency's liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	ranking Pinger
	timeout time.Duration
}

// NewService constructs a health service. ranking may be nil.
func NewService(ranking Pinger) *Service {
	return &Service{ranking: ranking, timeout: 3 * time.Second}
}

// Status returns the liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready reports whether the ranking service answers its liveness probe.
func (s *Service) Ready(ctx context.Context) (map[string]any, bool) {
	if s.ranking == nil {
		return map[string]any{"ok": false, "ranking": "not configured"}, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.ranking.Ping(ctx); err != nil {
		return map[string]any{"ok": false, "ranking": err.Error()}, false
	}
	return map[string]any{"ok": true, "ranking": "up"}, true
}
