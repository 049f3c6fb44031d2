// Package sessions keeps one form orchestrator per browser session in memory.
package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/screener"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/telemetry"
)

var ErrNotFound = errors.New("session not found")

// Factory builds the orchestrator for a new session.
type Factory func(sessionID string) *screener.Orchestrator

type entry struct {
	form     *screener.Orchestrator
	lastSeen time.Time
}

// Registry maps session ids to orchestrators. Entries idle longer than ttl are
// evicted by Sweep.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry constructs an empty registry. A zero ttl disables eviction.
func NewRegistry(factory Factory, ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		sessions: make(map[string]*entry),
		factory:  factory,
		ttl:      ttl,
		now:      now,
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *screener.Orchestrator) {
	id := uuid.NewString()
	form := r.factory(id)
	r.mu.Lock()
	r.sessions[id] = &entry{form: form, lastSeen: r.now()}
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.SetActiveSessions(n)
	return id, form
}

// Get returns the orchestrator for id and refreshes its idle timer.
func (r *Registry) Get(id string) (*screener.Orchestrator, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.expired(e) {
		delete(r.sessions, id)
		metrics.SetActiveSessions(len(r.sessions))
		return nil, ErrNotFound
	}
	e.lastSeen = r.now()
	return e.form, nil
}

// GetOrCreate resolves id, starting a fresh session when it is unknown.
func (r *Registry) GetOrCreate(id string) (string, *screener.Orchestrator, bool) {
	if id != "" {
		if form, err := r.Get(id); err == nil {
			return id, form, false
		}
	}
	newID, form := r.Create()
	return newID, form, true
}

// Known reports whether id names a live session.
func (r *Registry) Known(id string) bool {
	_, err := r.Get(id)
	return err == nil
}

// Resolve satisfies middleware.SessionResolver.
func (r *Registry) Resolve(id string) (string, bool) {
	resolved, _, created := r.GetOrCreate(id)
	return resolved, created
}

// Len reports the number of held sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops idle sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		if r.expired(e) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.SetActiveSessions(len(r.sessions))
	return removed
}

// Run sweeps on every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				telemetry.Info("sessions.swept", map[string]any{"removed": n, "active": r.Len()})
			}
		}
	}
}

func (r *Registry) expired(e *entry) bool {
	return r.ttl > 0 && r.now().Sub(e.lastSeen) > r.ttl
}
