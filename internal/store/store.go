package store

import (
	"sync"

	"go.uber.org/zap"
)

// Store holds the single authoritative State. It is created explicitly and
// handed to whoever needs it; there is no package-level instance.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
	log    *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger logs every dispatched action at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithState seeds the store.
func WithState(st State) Option {
	return func(s *Store) { s.state = st }
}

func New(opts ...Option) *Store {
	s := &Store{
		subs: make(map[int]func(State)),
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs a through the reducer and notifies subscribers with the
// new state. Subscribers are called outside the lock.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug("dispatch",
		zap.String("action", string(a.Type())),
		zap.Int("items", len(next.Items)),
		zap.Bool("loading", next.Loading),
		zap.String("error", next.Error),
	)
	for _, fn := range subs {
		fn(next)
	}
	return next
}

// Subscribe registers fn to be called after every dispatch.
// The returned func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
