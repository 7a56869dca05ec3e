// Package session holds per-session conversation state for the rule-based
// payment flow. The store is injected into handlers rather than held as
// process-wide state so tests can isolate sessions.
package session

import "sync"

// Step is the rule-based handler's state machine position.
type Step string

const (
	StepIdle                 Step = "idle"
	StepAwaitingConfirmation Step = "awaiting_confirmation"
)

// PendingPayment is a payment intent waiting for user confirmation.
type PendingPayment struct {
	Recipient          string
	RecipientAccountID string
	Amount             int
	Description        string
}

// State is one session's mutable state.
type State struct {
	Step    Step
	Pending *PendingPayment
}

type entry struct {
	mu    sync.Mutex
	state State
}

// Store is an in-memory session store keyed by session identifier. Access
// to one session is serialized: concurrent requests for the same key run
// their critical sections one at a time.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry)}
}

func (s *Store) entryFor(id string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{state: State{Step: StepIdle}}
		s.sessions[id] = e
	}
	return e
}

// Do runs fn with exclusive access to the session's state. New sessions
// start idle.
func (s *Store) Do(id string, fn func(*State)) {
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.state)
}

// Get returns a copy of the session's current state.
func (s *Store) Get(id string) State {
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Reset returns the session to idle and discards any pending payment.
func (s *Store) Reset(id string) {
	s.Do(id, func(st *State) {
		*st = State{Step: StepIdle}
	})
}
