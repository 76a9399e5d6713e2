package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-attempt-service/internal/domain"
)

func TestSelectionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSelectionStore(newClient(mr), time.Hour)

	if _, err := store.Load(ctx, "u1"); !errors.Is(err, domain.ErrNoQuestionSet) {
		t.Fatalf("expected no selection, got %v", err)
	}

	if err := store.Save(ctx, "u1", sampleSet()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("selection:u1") {
		t.Fatalf("expected redis key to be set")
	}

	set, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.CourseName != "Numbers" || len(set.Questions) != 2 {
		t.Fatalf("unexpected set %+v", set)
	}
	if set.Questions[1].Key != domain.ByText("6") {
		t.Fatalf("expected text key, got %+v", set.Questions[1].Key)
	}

	if err := store.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if mr.Exists("selection:u1") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSelectionStoreRejectsCorruptValue(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	_ = mr.Set("selection:u1", "{not json")
	store := NewSelectionStore(newClient(mr), 0)

	if _, err := store.Load(context.Background(), "u1"); !errors.Is(err, domain.ErrInvalidQuestionSet) {
		t.Fatalf("expected invalid set error, got %v", err)
	}
}
