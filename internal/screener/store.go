package screener

import "sync"

// Store serialises dispatches against a single State.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore wraps an initial state.
func NewStore(initial State) *Store {
	return &Store{state: initial.Clone()}
}

// Dispatch reduces a into the held state and returns a copy of the result.
// On error the held state is unchanged and the returned copy reflects it.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := Reduce(s.state, a)
	if err != nil {
		return s.state.Clone(), err
	}
	s.state = next
	return next.Clone(), nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}
