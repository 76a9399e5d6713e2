package memory

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"quiz-attempt-service/internal/domain"
)

// ResultLog records submissions in memory. It stands in for the results API
// when no endpoint is configured.
type ResultLog struct {
	mu      sync.RWMutex
	clock   func() time.Time
	records []domain.ResultRecord
	sent    []domain.ResultSubmission
}

func NewResultLog() *ResultLog {
	return &ResultLog{clock: time.Now}
}

func (l *ResultLog) RecordResult(_ context.Context, submission domain.ResultSubmission) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent, submission)
	l.records = append(l.records, domain.ResultRecord{
		ID:               strconv.Itoa(len(l.records) + 1),
		UserID:           submission.UserID,
		CourseName:       submission.CourseName,
		QuestionSetTitle: submission.QuestionSetTitle,
		Score:            submission.Score,
		MaxScore:         submission.MaxScore,
		Percentage:       submission.Percentage,
		Remark:           submission.Remark,
		CreatedAt:        l.clock(),
	})
	log.Printf("recorded result for %s: %d/%d (%s)", submission.UserID, submission.Score, submission.MaxScore, submission.Remark)
	return nil
}

func (l *ResultLog) ListResults(_ context.Context, userID string) ([]domain.ResultRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.ResultRecord, 0)
	for _, rec := range l.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Submissions returns every submission received so far.
func (l *ResultLog) Submissions() []domain.ResultSubmission {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.ResultSubmission, len(l.sent))
	copy(out, l.sent)
	return out
}
