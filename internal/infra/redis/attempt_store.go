package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-attempt-service/internal/app"
)

// AttemptStore is a Redis-aware implementation of app.AttemptRepository.
// Sessions own a live timer, so they stay in a local map; Redis only carries a
// liveness marker holding the attempt ID, which other instances can inspect.
type AttemptStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Session
}

func NewAttemptStore(client *redis.Client, ttl time.Duration) *AttemptStore {
	return &AttemptStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Session),
	}
}

func (s *AttemptStore) Put(owner string, session *app.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[owner] = session
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(owner), session.ID(), s.ttl).Err()
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
	if session, ok := s.sessions[owner]; !ok || session.ID() != attemptID {
		return
	}
	delete(s.sessions, owner)
	_ = s.client.Del(context.Background(), s.key(owner)).Err()
}

func (s *AttemptStore) key(owner string) string {
	return "attempt:session:" + owner
}
