package appstate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the single authoritative state container. It is owned by the
// composition root and passed explicitly to whoever dispatches or subscribes;
// there is no ambient singleton. Dispatches are applied atomically under one
// lock, so concurrent callers cannot interleave partial transitions.
type Store struct {
	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int

	now   func() time.Time
	newID func() string
}

func NewStore() *Store {
	return &Store{
		state: initialState(),
		subs:  make(map[int]func(State)),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Dispatch applies one event and notifies subscribers with the new snapshot.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	s.state = reduce(s.state, ev, s.now().UnixMilli(), s.newID)
	snapshot := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
}

// State returns the current snapshot. Slices inside are shared and must be
// treated as read-only.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BeginEstimation mints a fencing token, dispatches EstimationStart with it
// and hands the token back so the caller can tag the completion event. A
// success or failure carrying an older token is dropped by the reducer.
func (s *Store) BeginEstimation() string {
	token := s.newID()
	s.Dispatch(EstimationStart{Token: token})
	return token
}

// Subscribe registers an observer; the returned function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
