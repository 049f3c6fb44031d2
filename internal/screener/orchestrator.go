// Package screener holds the resume screening form: its state, the actions
// that change it and the submit flow against the ranking service.
package screener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-screener/internal/ranking"
	"resume-screener/internal/shared/metrics"
	"resume-screener/internal/shared/telemetry"
)

// Ranker ranks resumes against a job description.
type Ranker interface {
	Rank(ctx context.Context, req ranking.Request) (ranking.Response, error)
}

// Orchestrator owns one form and runs its actions.
type Orchestrator struct {
	store  *Store
	ranker Ranker
	label  string
	now    func() time.Time
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithMaxResumes caps the number of resume slots.
func WithMaxResumes(n int) Option {
	return func(o *Orchestrator) {
		o.store = NewStore(NewState(n))
	}
}

// WithLabel tags log lines, typically with the session id.
func WithLabel(label string) Option {
	return func(o *Orchestrator) { o.label = label }
}

// WithClock overrides time.Now for duration measurement.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds an orchestrator in its mount-time state.
func New(ranker Ranker, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:  NewStore(NewState(0)),
		ranker: ranker,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	return o.store.Snapshot()
}

// UpdateJobDescription replaces the job description.
func (o *Orchestrator) UpdateJobDescription(text string) State {
	s, _ := o.store.Dispatch(Action{Type: ActionEditJobDescription, Text: text})
	return s
}

// AddResumeSlot appends an empty resume slot.
func (o *Orchestrator) AddResumeSlot() (State, error) {
	return o.store.Dispatch(Action{Type: ActionAddResume})
}

// UpdateResumeText replaces the resume at index.
func (o *Orchestrator) UpdateResumeText(index int, text string) (State, error) {
	return o.store.Dispatch(Action{Type: ActionEditResume, Index: index, Text: text})
}

// Submit validates the form and, when valid, sends it to the ranker once.
// The returned error mirrors the outcome for programmatic callers; the
// user-facing message is always in State.Error.
func (o *Orchestrator) Submit(ctx context.Context) (State, error) {
	started, err := o.store.Dispatch(Action{Type: ActionSubmitStart})
	if err != nil {
		return started, err
	}
	token := started.Token
	metrics.IncSubmitStarted()

	if msg := Validate(started.Form); msg != "" {
		metrics.IncSubmitInvalid()
		s, err := o.store.Dispatch(Action{Type: ActionSubmitInvalid, Token: token, Message: msg})
		if err != nil {
			return o.stale(s, token)
		}
		return s, fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	if o.ranker == nil {
		return o.fail(ctx, token, errors.New("ranker not configured"))
	}

	req := ranking.Request{
		JobDescription: started.Form.JobDescription,
		Resumes:        started.Form.Resumes,
	}
	telemetry.Info("submit.start", map[string]any{
		"session_id":   o.label,
		"submit_token": token,
		"resumes":      len(req.Resumes),
	})

	begin := o.now()
	resp, err := o.ranker.Rank(ctx, req)
	elapsed := o.now().Sub(begin)
	metrics.ObserveRankingDurationMs(float64(elapsed.Microseconds()) / 1000.0)
	if err != nil {
		return o.fail(ctx, token, err)
	}

	s, err := o.store.Dispatch(Action{Type: ActionSubmitSuccess, Token: token, Results: resp.RankedResumes})
	if err != nil {
		return o.stale(s, token)
	}
	metrics.IncSubmitSucceeded()
	telemetry.Info("submit.success", map[string]any{
		"session_id":   o.label,
		"submit_token": token,
		"results":      len(resp.RankedResumes),
		"duration_ms":  float64(elapsed.Microseconds()) / 1000.0,
	})
	return s, nil
}

func (o *Orchestrator) fail(ctx context.Context, token uint64, cause error) (State, error) {
	s, err := o.store.Dispatch(Action{Type: ActionSubmitFailure, Token: token, Message: MsgSubmitFailed})
	if err != nil {
		return o.stale(s, token)
	}
	metrics.IncSubmitFailed()
	fields := map[string]any{
		"session_id":   o.label,
		"submit_token": token,
		"error":        cause,
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		fields["context_error"] = ctxErr
	}
	telemetry.Error("submit.failure", fields)
	return s, fmt.Errorf("%w: %w", ErrSubmitFailed, cause)
}

func (o *Orchestrator) stale(s State, token uint64) (State, error) {
	metrics.IncSubmitStale()
	telemetry.Warn("submit.stale", map[string]any{
		"session_id":   o.label,
		"submit_token": token,
		"latest_token": s.Token,
	})
	return s, ErrStale
}
