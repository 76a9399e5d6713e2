package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quiz-attempt-service/internal/domain"
)

// SelectionStore persists each owner's selected question set under selection:{owner}.
// A zero ttl keeps the selection until it is cleared.
type SelectionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSelectionStore(client *redis.Client, ttl time.Duration) *SelectionStore {
	return &SelectionStore{client: client, ttl: ttl}
}

func (s *SelectionStore) Save(ctx context.Context, owner string, set domain.QuestionSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if err := s.client.Set(ctx, s.key(owner), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save selection: %w", err)
	}
	return nil
}

func (s *SelectionStore) Load(ctx context.Context, owner string) (domain.QuestionSet, error) {
	data, err := s.client.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QuestionSet{}, domain.ErrNoQuestionSet
	}
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("load selection: %w", err)
	}
	var set domain.QuestionSet
	if err := json.Unmarshal(data, &set); err != nil {
		return domain.QuestionSet{}, fmt.Errorf("%w: %v", domain.ErrInvalidQuestionSet, err)
	}
	return set, nil
}

func (s *SelectionStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	return nil
}

func (s *SelectionStore) key(owner string) string {
	return "selection:" + owner
}
