package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// SetType distinguishes general courses from access-code gated masterclasses.
type SetType string

const (
	SetTypeGeneral     SetType = "general"
	SetTypeMasterclass SetType = "masterclass"
)

// QuestionSet is an ordered list of questions bound to one course, loaded as a unit.
type QuestionSet struct {
	ID          string        `json:"id" validate:"required"`
	Type        SetType       `json:"type" validate:"omitempty,oneof=general masterclass"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	CourseID    string        `json:"courseId,omitempty"`
	CourseName  string        `json:"courseName,omitempty"`
	Questions   []RawQuestion `json:"questions" validate:"required,min=1,dive"`
}

// KeyKind tags which variant an AnswerKey carries.
type KeyKind int

const (
	KeyNone KeyKind = iota
	KeyByIndex
	KeyByText
)

// AnswerKey is the correct-answer designator as it arrives from upstream:
// either an option index or the literal text of the correct option.
type AnswerKey struct {
	Kind  KeyKind
	Index int
	Text  string
}

// ByIndex builds an index-keyed answer.
func ByIndex(i int) AnswerKey { return AnswerKey{Kind: KeyByIndex, Index: i} }

// ByText builds a text-keyed answer.
func ByText(s string) AnswerKey { return AnswerKey{Kind: KeyByText, Text: s} }

// RawQuestion is a question before its answer key has been resolved.
type RawQuestion struct {
	ID          string    `json:"id,omitempty"`
	Question    string    `json:"question" validate:"required"`
	Options     []string  `json:"options" validate:"required,min=1"`
	Key         AnswerKey `json:"-"`
	Explanation string    `json:"explanation,omitempty"`
}

type rawQuestionJSON struct {
	ID            string          `json:"id,omitempty"`
	LegacyID      string          `json:"_id,omitempty"`
	Question      string          `json:"question"`
	Options       []string        `json:"options"`
	CorrectOption json.RawMessage `json:"correctOption,omitempty"`
	CorrectAnswer *string         `json:"correctAnswer,omitempty"`
	Explanation   string          `json:"explanation,omitempty"`
}

// UnmarshalJSON folds the correctOption/correctAnswer fields into Key.
// correctOption may be a number or a numeric string; anything else is ignored.
func (q *RawQuestion) UnmarshalJSON(data []byte) error {
	var raw rawQuestionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.ID = raw.ID
	if q.ID == "" {
		q.ID = raw.LegacyID
	}
	q.Question = raw.Question
	q.Options = raw.Options
	q.Explanation = raw.Explanation
	q.Key = AnswerKey{}

	if idx, ok := parseOptionIndex(raw.CorrectOption); ok {
		q.Key = ByIndex(idx)
	} else if raw.CorrectAnswer != nil {
		q.Key = ByText(*raw.CorrectAnswer)
	}
	return nil
}

// MarshalJSON writes Key back out in the upstream field names.
func (q RawQuestion) MarshalJSON() ([]byte, error) {
	out := struct {
		ID            string   `json:"id,omitempty"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectOption *int     `json:"correctOption,omitempty"`
		CorrectAnswer *string  `json:"correctAnswer,omitempty"`
		Explanation   string   `json:"explanation,omitempty"`
	}{
		ID:          q.ID,
		Question:    q.Question,
		Options:     q.Options,
		Explanation: q.Explanation,
	}
	switch q.Key.Kind {
	case KeyByIndex:
		idx := q.Key.Index
		out.CorrectOption = &idx
	case KeyByText:
		text := q.Key.Text
		out.CorrectAnswer = &text
	}
	return json.Marshal(out)
}

func parseOptionIndex(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	text := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}
	if i, err := strconv.Atoi(text); err == nil {
		return i, true
	}
	// 1.0 and "1.0" are indexes too; fractions are truncated
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// NormalizedQuestion carries a question with its correct answer resolved to an index.
type NormalizedQuestion struct {
	ID           string   `json:"id"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	Explanation  string   `json:"explanation,omitempty"`
	CorrectIndex int      `json:"correctIndex"`
}

// CorrectText returns the text of the correct option, or "" if the index is out of range.
func (q NormalizedQuestion) CorrectText() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// AnsweredQuestion is recorded once per question the user answered.
type AnsweredQuestion struct {
	QuestionID          string   `json:"questionId"`
	QuestionText        string   `json:"questionText"`
	SelectedOptionIndex int      `json:"selectedOptionIndex"`
	SelectedAnswerText  string   `json:"selectedAnswerText"`
	CorrectIndex        int      `json:"correctIndex"`
	CorrectAnswerText   string   `json:"correctAnswerText"`
	IsCorrect           bool     `json:"isCorrect"`
	Explanation         string   `json:"explanation,omitempty"`
	PointsAwarded       int      `json:"pointsAwarded"`
	AllOptions          []string `json:"allOptions"`
}

// Phase is the lifecycle stage of an attempt.
type Phase string

const (
	PhaseLoading    Phase = "loading"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
)

// CompletionReason records how an attempt left the in-progress phase.
type CompletionReason string

const (
	CompletionFinished CompletionReason = "finished"
	CompletionTimeout  CompletionReason = "timeout"
)

// Participant identifies the student taking the attempt.
type Participant struct {
	UserID   string `json:"userId" validate:"required"`
	UserName string `json:"userName" validate:"required"`
}

// Result summarizes a completed attempt.
type Result struct {
	Score          int                `json:"score"`
	MaxScore       int                `json:"maxScore"`
	TotalQuestions int                `json:"totalQuestions"`
	Answered       int                `json:"answered"`
	Correct        int                `json:"correct"`
	Percentage     int                `json:"percentage"`
	TimeTaken      int                `json:"timeTaken"`
	Remark         string             `json:"remark"`
	Reason         CompletionReason   `json:"reason"`
	StartedAt      time.Time          `json:"startedAt"`
	EndedAt        time.Time          `json:"endedAt"`
	Answers        []AnsweredQuestion `json:"answers"`
}

// ResultSubmission is the body posted to the results-recording endpoint.
type ResultSubmission struct {
	Answers          []AnsweredQuestion `json:"answers"`
	UserID           string             `json:"userId"`
	UserName         string             `json:"userName"`
	CourseID         string             `json:"courseId"`
	CourseName       string             `json:"courseName"`
	CourseType       SetType            `json:"courseType"`
	Score            int                `json:"score"`
	MaxScore         int                `json:"maxScore"`
	TotalQuestions   int                `json:"totalQuestions"`
	Percentage       int                `json:"percentage"`
	TimeTaken        int                `json:"timeTaken"`
	Remark           string             `json:"remark"`
	QuestionSetID    string             `json:"questionSetId"`
	QuestionSetTitle string             `json:"questionSetTitle"`
	QuestionSetType  SetType            `json:"questionSetType"`
}

// ResultRecord is one previously recorded result as listed by the results API.
type ResultRecord struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	CourseName       string    `json:"courseName"`
	QuestionSetTitle string    `json:"questionSetTitle"`
	Score            int       `json:"score"`
	MaxScore         int       `json:"maxScore"`
	Percentage       int       `json:"percentage"`
	Remark           string    `json:"remark"`
	Band             string    `json:"band,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}
