package client

import "sync"

// Session is the signed-in state a routing guard reads. The invariant
// Authenticated == (User != nil) holds for every Session this package hands
// out; the two fields are never updated independently.
type Session struct {
	User          *Principal
	Authenticated bool
}

// SessionState tracks the authenticated principal for one browsing context.
// It is an explicit instance handed to whoever needs it — tests construct
// isolated states, and a host embedding several contexts constructs several.
type SessionState struct {
	mu        sync.Mutex
	store     TokenStore
	namespace string
	current   Session
	watchers  []chan Session
}

// NewSessionState creates a signed-out SessionState bound to the token
// namespace it owns in store.
func NewSessionState(store TokenStore, namespace string) *SessionState {
	return &SessionState{
		store:     store,
		namespace: namespace,
	}
}

// Login records principal as the signed-in user.
func (s *SessionState) Login(principal Principal) {
	p := principal
	s.transition(Session{User: &p, Authenticated: true})
}

// Logout clears the persisted token for the active namespace, then resets
// the in-memory state. Storage is mutated before the state flips so a guard
// that observes the transition can never read a still-present token as
// authenticated. Calling Logout twice leaves the same cleared state as once.
func (s *SessionState) Logout() {
	_ = s.store.Clear(s.namespace)
	s.transition(Session{})
}

// Current returns the session snapshot.
func (s *SessionState) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Authenticated is the pure read a routing guard performs before rendering a
// protected view. No network, no cryptography.
func (s *SessionState) Authenticated() bool {
	return s.Current().Authenticated
}

// Watch registers a listener that receives a session snapshot after every
// Login and Logout — the broadcast hook a multi-context host uses to
// propagate a logout to every open context. The returned cancel function
// unregisters the listener and closes the channel. A listener that falls
// behind misses intermediate snapshots; the latest state is always
// available from [SessionState.Current].
func (s *SessionState) Watch() (<-chan Session, func()) {
	ch := make(chan Session, 1)

	s.mu.Lock()
	s.watchers = append(s.watchers, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, w := range s.watchers {
			if w == ch {
				s.watchers = append(s.watchers[:i], s.watchers[i+1:]...)
				close(ch)
				return
			}
		}
	}

	return ch, cancel
}

func (s *SessionState) transition(next Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	for _, w := range s.watchers {
		// drop the stale snapshot if the watcher has not drained it
		select {
		case <-w:
		default:
		}
		select {
		case w <- next:
		default:
		}
	}
}
