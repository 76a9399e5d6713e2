package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-attempt-service/internal/domain"
)

const (
	// DefaultTimeLimit is the wall-clock budget of one attempt, in seconds.
	DefaultTimeLimit = 900
	// PointsPerAnswer is awarded for each correct answer. No partial or negative marking.
	PointsPerAnswer = 5
)

// ResultRecorder sends a completed attempt to the results-recording endpoint.
type ResultRecorder interface {
	RecordResult(ctx context.Context, submission domain.ResultSubmission) error
}

// SessionOption customizes a Session at construction.
type SessionOption func(*Session)

// WithClock injects the time source; tests use it for deterministic timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithTimeLimit sets the countdown budget in seconds.
func WithTimeLimit(seconds int) SessionOption {
	return func(s *Session) {
		if seconds > 0 {
			s.remaining = seconds
		}
	}
}

// WithTickInterval sets how often the countdown advances by one second of budget.
func WithTickInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// QuestionView is the part of a question a student sees before answering.
type QuestionView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Snapshot is a read-only view of a session for UI layers.
type Snapshot struct {
	AttemptID        string                   `json:"attemptId"`
	QuestionSetID    string                   `json:"questionSetId"`
	Phase            domain.Phase             `json:"phase"`
	Reason           domain.CompletionReason  `json:"reason,omitempty"`
	CurrentIndex     int                      `json:"currentIndex"`
	TotalQuestions   int                      `json:"totalQuestions"`
	Question         QuestionView             `json:"question"`
	Answer           *domain.AnsweredQuestion `json:"answer,omitempty"`
	AnsweredCount    int                      `json:"answeredCount"`
	Score            int                      `json:"score"`
	RemainingSeconds int                      `json:"remainingSeconds"`
	Submitted        bool                     `json:"submitted"`
	Abandoned        bool                     `json:"abandoned,omitempty"`
}

// Session is one student's pass through a question set.
type Session struct {
	id           string
	set          domain.QuestionSet
	questions    []domain.NormalizedQuestion
	points       int
	tickInterval time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	phase     domain.Phase
	reason    domain.CompletionReason
	current   int
	answers   []domain.AnsweredQuestion
	score     int
	remaining int
	startedAt time.Time
	endedAt   time.Time

	inFlight  bool
	submitted bool
	abandoned bool

	stopTimer    chan struct{}
	timerStopped bool

	subscribers map[chan Snapshot]struct{}
}

// NewSession validates and normalizes set and starts the attempt. The countdown
// does not run until StartTimer is called.
func NewSession(set domain.QuestionSet, opts ...SessionOption) (*Session, error) {
	if len(set.Questions) == 0 {
		return nil, domain.ErrEmptyQuestionSet
	}
	if err := ValidateQuestionSet(set); err != nil {
		return nil, err
	}

	s := &Session{
		id:           uuid.NewString(),
		set:          set,
		points:       PointsPerAnswer,
		tickInterval: time.Second,
		now:          time.Now,
		phase:        domain.PhaseLoading,
		remaining:    DefaultTimeLimit,
		subscribers:  make(map[chan Snapshot]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	questions, resolutions := NormalizeQuestions(set.Questions)
	for i, res := range resolutions {
		if res == ResolvedByFallback {
			log.Printf("question set %s: answer key of question %s matched no option, defaulting to option 0", set.ID, questions[i].ID)
		}
	}
	s.questions = questions
	s.answers = make([]domain.AnsweredQuestion, 0, len(questions))
	s.phase = domain.PhaseInProgress
	s.startedAt = s.now()
	return s, nil
}

// ID returns the attempt identifier.
func (s *Session) ID() string { return s.id }

// QuestionSet returns the set this attempt was built from.
func (s *Session) QuestionSet() domain.QuestionSet { return s.set }

// Phase reports the current lifecycle stage.
func (s *Session) Phase() domain.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Submitted reports whether the result was recorded successfully.
func (s *Session) Submitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitted
}

// StartTimer launches the one-second countdown. Calling it more than once is a no-op.
func (s *Session) StartTimer() {
	s.mu.Lock()
	if !s.running() || s.stopTimer != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.stopTimer = stop
	interval := s.tickInterval
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !s.tickUnlessStopped(stop) {
					return
				}
			}
		}
	}()
}

// Stop cancels the countdown. Safe to call repeatedly and from any path.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Abandon stops the countdown and freezes the attempt: it can no longer be
// answered, navigated, timed out or submitted.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandoned = true
	s.stopLocked()
	s.broadcastLocked()
}

// Abandoned reports whether Abandon was called.
func (s *Session) Abandoned() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.abandoned
}

func (s *Session) running() bool {
	return s.phase == domain.PhaseInProgress && !s.abandoned
}

func (s *Session) stopLocked() {
	if s.stopTimer != nil && !s.timerStopped {
		close(s.stopTimer)
	}
	s.timerStopped = true
}

// Tick consumes one second of budget. It reports whether the attempt is still running.
func (s *Session) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickLocked()
}

func (s *Session) tickUnlessStopped(stop chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-stop:
		return false
	default:
	}
	return s.tickLocked()
}

func (s *Session) tickLocked() bool {
	if !s.running() {
		return false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining == 0 {
		s.completeLocked(domain.CompletionTimeout)
		return false
	}
	s.broadcastLocked()
	return true
}

// Answer records the selected option for the current question. Answering an
// already answered question is ignored and returns the recorded answer.
func (s *Session) Answer(optionIndex int) (domain.AnsweredQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return domain.AnsweredQuestion{}, domain.ErrNotInProgress
	}
	if s.current < len(s.answers) {
		return s.answers[s.current], nil
	}

	q := s.questions[s.current]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.AnsweredQuestion{}, domain.ErrOptionOutOfRange
	}

	correct := optionIndex == q.CorrectIndex
	awarded := 0
	if correct {
		awarded = s.points
		s.score += s.points
	}
	answer := domain.AnsweredQuestion{
		QuestionID:          q.ID,
		QuestionText:        q.Question,
		SelectedOptionIndex: optionIndex,
		SelectedAnswerText:  q.Options[optionIndex],
		CorrectIndex:        q.CorrectIndex,
		CorrectAnswerText:   q.CorrectText(),
		IsCorrect:           correct,
		Explanation:         q.Explanation,
		PointsAwarded:       awarded,
		AllOptions:          q.Options,
	}
	s.answers = append(s.answers, answer)
	s.broadcastLocked()
	return answer, nil
}

// Next advances to the following question, or completes the attempt on the last one.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return domain.ErrNotInProgress
	}
	if s.current >= len(s.answers) {
		return domain.ErrQuestionUnanswered
	}
	if s.current == len(s.questions)-1 {
		s.completeLocked(domain.CompletionFinished)
		return nil
	}
	s.current++
	s.broadcastLocked()
	return nil
}

// Previous moves back one question, restoring its recorded answer.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return domain.ErrNotInProgress
	}
	if s.current == 0 {
		return domain.ErrNoPreviousQuestion
	}
	s.current--
	s.broadcastLocked()
	return nil
}

func (s *Session) completeLocked(reason domain.CompletionReason) {
	s.phase = domain.PhaseCompleted
	s.reason = reason
	s.endedAt = s.now()
	s.stopLocked()
	s.broadcastLocked()
}

// Snapshot returns the current view of the attempt.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	q := s.questions[s.current]
	snap := Snapshot{
		AttemptID:      s.id,
		QuestionSetID:  s.set.ID,
		Phase:          s.phase,
		Reason:         s.reason,
		CurrentIndex:   s.current,
		TotalQuestions: len(s.questions),
		Question: QuestionView{
			ID:       q.ID,
			Question: q.Question,
			Options:  q.Options,
		},
		AnsweredCount:    len(s.answers),
		Score:            s.score,
		RemainingSeconds: s.remaining,
		Submitted:        s.submitted,
		Abandoned:        s.abandoned,
	}
	if s.current < len(s.answers) {
		answer := s.answers[s.current]
		snap.Answer = &answer
	}
	return snap
}

// Result computes the final statistics. On a running attempt it reflects progress so far.
func (s *Session) Result() domain.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultLocked()
}

func (s *Session) resultLocked() domain.Result {
	maxScore := s.points * len(s.questions)
	pct := Percentage(s.score, maxScore)
	ended := s.endedAt
	if ended.IsZero() {
		ended = s.now()
	}
	correct := 0
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		}
	}
	answers := make([]domain.AnsweredQuestion, len(s.answers))
	copy(answers, s.answers)
	return domain.Result{
		Score:          s.score,
		MaxScore:       maxScore,
		TotalQuestions: len(s.questions),
		Answered:       len(s.answers),
		Correct:        correct,
		Percentage:     pct,
		TimeTaken:      int(ended.Sub(s.startedAt) / time.Second),
		Remark:         PerformanceRemark(pct),
		Reason:         s.reason,
		StartedAt:      s.startedAt,
		EndedAt:        ended,
		Answers:        answers,
	}
}

// Submit sends the completed attempt through recorder. Only one submission may
// be in flight; a failed one leaves the attempt intact for a manual retry.
func (s *Session) Submit(ctx context.Context, recorder ResultRecorder, who domain.Participant) (domain.ResultSubmission, error) {
	s.mu.Lock()
	switch {
	case s.phase != domain.PhaseCompleted || s.abandoned:
		s.mu.Unlock()
		return domain.ResultSubmission{}, domain.ErrNotCompleted
	case s.submitted:
		s.mu.Unlock()
		return domain.ResultSubmission{}, domain.ErrAlreadySubmitted
	case s.inFlight:
		s.mu.Unlock()
		return domain.ResultSubmission{}, domain.ErrSubmissionInFlight
	}
	s.inFlight = true
	submission := s.submissionLocked(who)
	s.mu.Unlock()

	err := recorder.RecordResult(ctx, submission)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return submission, fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	s.submitted = true
	s.broadcastLocked()
	return submission, nil
}

func (s *Session) submissionLocked(who domain.Participant) domain.ResultSubmission {
	res := s.resultLocked()
	return domain.ResultSubmission{
		Answers:          res.Answers,
		UserID:           who.UserID,
		UserName:         who.UserName,
		CourseID:         s.set.CourseID,
		CourseName:       s.set.CourseName,
		CourseType:       s.set.Type,
		Score:            res.Score,
		MaxScore:         res.MaxScore,
		TotalQuestions:   res.TotalQuestions,
		Percentage:       res.Percentage,
		TimeTaken:        res.TimeTaken,
		Remark:           res.Remark,
		QuestionSetID:    s.set.ID,
		QuestionSetTitle: s.set.Title,
		QuestionSetType:  s.set.Type,
	}
}

// Subscribe returns a channel receiving a snapshot after every change, starting
// with the current one. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the oldest pending snapshot so a slow reader never blocks the session
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}
