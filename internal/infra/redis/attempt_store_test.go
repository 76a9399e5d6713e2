package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"quiz-attempt-service/internal/app"
)

func TestAttemptStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewAttemptStore(newClient(mr), time.Minute)
	session, err := app.NewSession(sampleSet())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	store.Put("u1", session)
	got, err := mr.Get("attempt:session:u1")
	if err != nil {
		t.Fatalf("expected redis key to be set: %v", err)
	}
	if got != session.ID() {
		t.Fatalf("expected attempt id %s, got %s", session.ID(), got)
	}

	store.Delete("u1", "stale-attempt")
	if !mr.Exists("attempt:session:u1") {
		t.Fatalf("delete with a stale attempt id must keep the marker")
	}

	store.Delete("u1", session.ID())
	if mr.Exists("attempt:session:u1") {
		t.Fatalf("expected redis key to be removed")
	}
	if _, ok := store.Get("u1"); ok {
		t.Fatalf("expected session removed")
	}
}
