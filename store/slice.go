package store

import "sync"

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is one slice's view: its data plus the fetch bookkeeping.
type State[T any] struct {
	Data    T
	Status  Status
	Loading bool
	Error   string
}

// Slice is a single state machine. Transitions are last-write-wins.
type Slice[T any] struct {
	mu    sync.RWMutex
	state State[T]
}

func (s *Slice[T]) Pending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending()
}

func (s *Slice[T]) pending() {
	s.state.Loading = true
	s.state.Error = ""
	s.state.Status = StatusLoading
}

func (s *Slice[T]) Fulfilled(apply func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.state.Data)
	s.state.Loading = false
	s.state.Error = ""
	s.state.Status = StatusSucceeded
}

// Rejected records msg and leaves data untouched.
func (s *Slice[T]) Rejected(msg string) {
	s.RejectedWith(msg, nil)
}

// RejectedWith is Rejected plus a data edit, for slices that drop a stale
// value on failure.
func (s *Slice[T]) RejectedWith(msg string, apply func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if apply != nil {
		apply(&s.state.Data)
	}
	s.state.Loading = false
	s.state.Error = msg
	s.state.Status = StatusFailed
}

// Seed jumps from any state to succeeded. It overrides an in-flight fetch's
// pending state.
func (s *Slice[T]) Seed(apply func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.state.Data)
	s.state.Loading = false
	s.state.Error = ""
	s.state.Status = StatusSucceeded
}

func (s *Slice[T]) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Snapshot copies the state. Nested slices and pointers are shared and must
// be treated as read-only.
func (s *Slice[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Status == "" {
		st.Status = StatusIdle
	}
	return st
}
