package conversation

import (
	"sync"

	"remindly/models"
)

// Session is one sender's dialogue state. Turn 0 is the system turn; the
// rest of the transcript is append-only. Sessions live for the process
// lifetime, with no expiry.
type Session struct {
	Sender string
	Turns  []models.Turn
}

// SessionStore is the in-memory session map. The store lock only guards map
// access; mutation of an individual session is serialized per sender by the
// dispatcher.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Get(sender string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sender]
	return sess, ok
}

func (s *SessionStore) Put(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Sender] = sess
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
