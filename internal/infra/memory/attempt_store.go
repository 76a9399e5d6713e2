package memory

import (
	"sync"

	"quiz-attempt-service/internal/app"
)

// AttemptStore is an in-memory implementation of app.AttemptRepository.
type AttemptStore struct {
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		sessions: make(map[string]*app.Session),
	}
}

func (s *AttemptStore) Put(owner string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[owner] = session
}

func (s *AttemptStore) Get(owner string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[owner]
	return session, ok
}

func (s *AttemptStore) Delete(owner, attemptID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[owner]; ok && session.ID() == attemptID {
		delete(s.sessions, owner)
	}
}
