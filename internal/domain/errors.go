package domain

import "errors"

var (
	// ErrQuestionSetNotFound indicates the catalog has no set with the requested ID.
	ErrQuestionSetNotFound = errors.New("question set not found")
	// ErrNoQuestionSet is returned when an attempt starts before a set was selected.
	ErrNoQuestionSet = errors.New("no question set selected")
	// ErrEmptyQuestionSet indicates a selected set has no questions.
	ErrEmptyQuestionSet = errors.New("question set has no questions")
	// ErrInvalidQuestionSet wraps validation failures of a loaded set.
	ErrInvalidQuestionSet = errors.New("invalid question set")
	// ErrAttemptNotFound is returned when no attempt is active for the owner.
	ErrAttemptNotFound = errors.New("attempt not found")

	ErrNotInProgress      = errors.New("attempt is not in progress")
	ErrQuestionUnanswered = errors.New("current question has not been answered")
	ErrNoPreviousQuestion = errors.New("already at the first question")
	ErrOptionOutOfRange   = errors.New("option index out of range")

	// ErrNotCompleted is returned when submitting an attempt that is still running.
	ErrNotCompleted = errors.New("attempt is not completed")
	// ErrSubmissionInFlight guards against duplicate concurrent submissions.
	ErrSubmissionInFlight = errors.New("submission already in flight")
	// ErrAlreadySubmitted is returned after a successful submission.
	ErrAlreadySubmitted = errors.New("attempt already submitted")
	// ErrSubmissionFailed wraps recorder failures; the attempt can be submitted again.
	ErrSubmissionFailed = errors.New("submission failed")
)
