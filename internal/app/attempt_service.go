package app

import (
	"context"
	"log"

	"quiz-attempt-service/internal/domain"
)

// QuestionSetRepository loads question sets from the catalog (cache/backing store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// SelectionStore holds the question set a student picked until the attempt is submitted.
// Load returns domain.ErrNoQuestionSet when nothing is stored for owner.
type SelectionStore interface {
	Save(ctx context.Context, owner string, set domain.QuestionSet) error
	Load(ctx context.Context, owner string) (domain.QuestionSet, error)
	Clear(ctx context.Context, owner string) error
}

// AttemptRepository abstracts where live attempts are kept (in-memory, Redis, etc).
type AttemptRepository interface {
	Put(owner string, session *Session)
	Get(owner string) (*Session, bool)
	// Delete removes owner's attempt only if it is still the one with attemptID.
	Delete(owner, attemptID string)
}

// ResultsAPI is the external results-recording service.
type ResultsAPI interface {
	ResultRecorder
	ListResults(ctx context.Context, userID string) ([]domain.ResultRecord, error)
}

// AttemptService contains the quiz attempt use cases.
type AttemptService struct {
	catalog    QuestionSetRepository
	selections SelectionStore
	attempts   AttemptRepository
	results    ResultsAPI
	opts       []SessionOption
}

func NewAttemptService(catalog QuestionSetRepository, selections SelectionStore, attempts AttemptRepository, results ResultsAPI, opts ...SessionOption) *AttemptService {
	return &AttemptService{
		catalog:    catalog,
		selections: selections,
		attempts:   attempts,
		results:    results,
		opts:       opts,
	}
}

// Select fetches a set from the catalog and stores it as owner's pending attempt input.
func (s *AttemptService) Select(ctx context.Context, owner, setID string) (domain.QuestionSet, error) {
	set, err := s.catalog.GetQuestionSet(ctx, setID)
	if err != nil {
		return domain.QuestionSet{}, err
	}
	if err := s.selections.Save(ctx, owner, set); err != nil {
		return domain.QuestionSet{}, err
	}
	return set, nil
}

// Begin starts an attempt from owner's selected set. A completed attempt of the
// same set that has not been submitted yet is returned as is so the submission
// can be retried; selecting another set discards it.
func (s *AttemptService) Begin(ctx context.Context, owner string) (*Session, error) {
	set, err := s.selections.Load(ctx, owner)
	if existing, ok := s.attempts.Get(owner); ok {
		pending := existing.Phase() == domain.PhaseCompleted && !existing.Submitted() && !existing.Abandoned()
		if pending && (err != nil || set.ID == existing.QuestionSet().ID) {
			return existing, nil
		}
		if pending {
			log.Printf("unsubmitted attempt %s for %s replaced by set %s", existing.ID(), owner, set.ID)
		}
		s.drop(owner, existing)
	}
	if err != nil {
		return nil, err
	}
	session, err := NewSession(set, s.opts...)
	if err != nil {
		return nil, err
	}
	s.attempts.Put(owner, session)
	session.StartTimer()
	return session, nil
}

// Attempt returns owner's live attempt.
func (s *AttemptService) Attempt(_ context.Context, owner string) (*Session, error) {
	session, ok := s.attempts.Get(owner)
	if !ok {
		return nil, domain.ErrAttemptNotFound
	}
	return session, nil
}

// Abandon discards owner's attempt without submitting it. Nothing happens if
// owner's live attempt is no longer attemptID.
func (s *AttemptService) Abandon(_ context.Context, owner, attemptID string) {
	session, ok := s.attempts.Get(owner)
	if !ok || session.ID() != attemptID {
		return
	}
	s.drop(owner, session)
}

func (s *AttemptService) drop(owner string, session *Session) {
	session.Abandon()
	s.attempts.Delete(owner, session.ID())
	log.Printf("attempt %s for %s abandoned", session.ID(), owner)
}

// Submit records owner's completed attempt. On success the attempt and the
// selection are discarded; on failure both are kept for a manual retry.
func (s *AttemptService) Submit(ctx context.Context, owner string, who domain.Participant) (domain.ResultSubmission, error) {
	if err := ValidateParticipant(who); err != nil {
		return domain.ResultSubmission{}, err
	}
	session, ok := s.attempts.Get(owner)
	if !ok {
		return domain.ResultSubmission{}, domain.ErrAttemptNotFound
	}

	submission, err := session.Submit(ctx, s.results, who)
	if err != nil {
		return submission, err
	}

	s.attempts.Delete(owner, session.ID())
	if err := s.selections.Clear(ctx, owner); err != nil {
		log.Printf("clear selection for %s: %v", owner, err)
	}
	return submission, nil
}

// History lists a user's recorded results, labelled with the history band.
func (s *AttemptService) History(ctx context.Context, userID string) ([]domain.ResultRecord, error) {
	records, err := s.results.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Band = HistoryBand(records[i].Percentage)
	}
	return records, nil
}
