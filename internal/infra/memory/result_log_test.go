package memory

import (
	"context"
	"testing"

	"quiz-attempt-service/internal/domain"
)

func TestResultLogListsByUser(t *testing.T) {
	ctx := context.Background()
	rl := NewResultLog()

	_ = rl.RecordResult(ctx, domain.ResultSubmission{UserID: "u1", Score: 20, MaxScore: 25, Percentage: 80})
	_ = rl.RecordResult(ctx, domain.ResultSubmission{UserID: "u2", Score: 5, MaxScore: 25, Percentage: 20})

	records, err := rl.ListResults(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 || records[0].Percentage != 80 {
		t.Fatalf("expected one u1 record at 80%%, got %+v", records)
	}
	if len(rl.Submissions()) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(rl.Submissions()))
	}
}
