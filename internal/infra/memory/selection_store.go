package memory

import (
	"context"
	"sync"

	"quiz-attempt-service/internal/domain"
)

// SelectionStore keeps each owner's selected question set in process memory.
type SelectionStore struct {
	mu   sync.RWMutex
	sets map[string]domain.QuestionSet
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{sets: make(map[string]domain.QuestionSet)}
}

func (s *SelectionStore) Save(_ context.Context, owner string, set domain.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[owner] = set
	return nil
}

func (s *SelectionStore) Load(_ context.Context, owner string) (domain.QuestionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[owner]
	if !ok {
		return domain.QuestionSet{}, domain.ErrNoQuestionSet
	}
	return set, nil
}

func (s *SelectionStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, owner)
	return nil
}
