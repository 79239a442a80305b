package validation

import (
	"context"
	"sync"
)

// State tracks a submission through its pass.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateResolved
	StateRejected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateResolved:
		return "resolved"
	case StateRejected:
		return "rejected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Settled reports whether the state is terminal.
func (s State) Settled() bool {
	return s == StateResolved || s == StateRejected || s == StateFailed
}

// Submission is the handle for one validation pass. Resolved carries a valid
// Result, Rejected an invalid one, Failed an error (cancelled context or a
// programming error such as a nil root).
type Submission struct {
	id string

	mu     sync.Mutex
	state  State
	result Result
	err    error
	done   chan struct{}
}

func newSubmission(id string) *Submission {
	return &Submission{id: id, done: make(chan struct{})}
}

// ID identifies the pass in logs.
func (s *Submission) ID() string {
	return s.id
}

// State returns the current state.
func (s *Submission) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed once the submission settles.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Result returns the settled result. Before settlement it returns a zero
// Result and ErrPending.
func (s *Submission) Result() (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Settled() {
		return Result{}, ErrPending
	}
	return s.result, s.err
}

// Wait blocks until the submission settles or ctx is done.
func (s *Submission) Wait(ctx context.Context) (Result, error) {
	select {
	case <-s.done:
		return s.Result()
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

func (s *Submission) transition(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Submission) settle(result Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Settled() {
		return
	}
	s.result = result
	s.err = err
	switch {
	case err != nil:
		s.state = StateFailed
	case result.Valid:
		s.state = StateResolved
	default:
		s.state = StateRejected
	}
	close(s.done)
}
