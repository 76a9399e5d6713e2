package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quiz-attempt-service/internal/domain"
)

func TestQuestionSetRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuestionSetLoader: NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
			"set-1": sampleSet(),
		}),
	}
	repo := NewQuestionSetRepository(loader, time.Minute)

	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get set: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuestionSet(context.Background(), "set-1"); err != nil {
		t.Fatalf("get set 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuestionSetRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{
		QuestionSetLoader: NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
			"set-1": sampleSet(),
		}),
	}
	repo := NewQuestionSetRepository(loader, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuestionSet(context.Background(), "set-1")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuestionSet(context.Background(), "set-1")
	if loader.calls != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls)
	}
}

func TestQuestionSetRepositoryUnknownSet(t *testing.T) {
	repo := NewQuestionSetRepository(NewStaticQuestionSetLoader(nil), time.Minute)
	_, err := repo.GetQuestionSet(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuestionSetNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadStaticQuestionSets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sets.json")
	data := `[{"id":"set-9","type":"general","title":"Basics","questions":[
		{"question":"2+2?","options":["3","4"],"correctOption":"1"},
		{"question":"Capital of France?","options":["Paris","Rome"],"correctAnswer":"paris"}
	]}]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	loader, err := LoadStaticQuestionSets(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	set, err := loader.LoadQuestionSet(context.Background(), "set-9")
	if err != nil {
		t.Fatalf("load set: %v", err)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(set.Questions))
	}
	if set.Questions[0].Key != domain.ByIndex(1) {
		t.Fatalf("expected index key, got %+v", set.Questions[0].Key)
	}
	if set.Questions[1].Key != domain.ByText("paris") {
		t.Fatalf("expected text key, got %+v", set.Questions[1].Key)
	}
}

type countingLoader struct {
	QuestionSetLoader
	calls int
}

func (l *countingLoader) LoadQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error) {
	l.calls++
	return l.QuestionSetLoader.LoadQuestionSet(ctx, setID)
}

func sampleSet() domain.QuestionSet {
	return domain.QuestionSet{
		ID:    "set-1",
		Type:  domain.SetTypeGeneral,
		Title: "Arithmetic",
		Questions: []domain.RawQuestion{
			{
				ID:       "q1",
				Question: "What is 2 + 2?",
				Options:  []string{"3", "4", "5"},
				Key:      domain.ByIndex(1),
			},
		},
	}
}

func TestQuestionSetRepositoryMissReturns(t *testing.T) {
	repo := NewQuestionSetRepository(NewStaticQuestionSetLoader(map[string]domain.QuestionSet{
		"set-1": sampleSet(),
	}), time.Minute)

	done := make(chan error, 1)
	go func() {
		_, err := repo.GetQuestionSet(context.Background(), "set-1")
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("get set: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("cache miss with a ttl did not return")
	}
}
