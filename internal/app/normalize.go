package app

import (
	"fmt"
	"strings"

	"quiz-attempt-service/internal/domain"
)

// Resolution reports which rule resolved a question's answer key.
type Resolution int

const (
	ResolvedByIndex Resolution = iota
	ResolvedByExactText
	ResolvedByPartialText
	ResolvedByFallback
)

func (r Resolution) String() string {
	switch r {
	case ResolvedByIndex:
		return "index"
	case ResolvedByExactText:
		return "exact"
	case ResolvedByPartialText:
		return "partial"
	default:
		return "fallback"
	}
}

// ResolveCorrectIndex maps an answer key onto an option index. First match wins:
// explicit index, exact case-insensitive text, either-direction substring, then 0.
func ResolveCorrectIndex(options []string, key domain.AnswerKey) (int, Resolution) {
	if key.Kind == domain.KeyByIndex {
		return key.Index, ResolvedByIndex
	}
	if key.Kind != domain.KeyByText {
		return 0, ResolvedByFallback
	}

	answer := strings.ToLower(strings.TrimSpace(key.Text))
	for i, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == answer {
			return i, ResolvedByExactText
		}
	}
	for i, opt := range options {
		o := strings.ToLower(strings.TrimSpace(opt))
		if strings.Contains(o, answer) || strings.Contains(answer, o) {
			return i, ResolvedByPartialText
		}
	}
	// Unmatched text silently marks option 0 correct; kept for compatibility with stored results.
	return 0, ResolvedByFallback
}

// NormalizeQuestion resolves one raw question. position is its zero-based index in the set.
func NormalizeQuestion(raw domain.RawQuestion, position int) (domain.NormalizedQuestion, Resolution) {
	idx, res := ResolveCorrectIndex(raw.Options, raw.Key)
	id := raw.ID
	if id == "" {
		id = fmt.Sprintf("q%d", position+1)
	}
	options := make([]string, len(raw.Options))
	copy(options, raw.Options)
	return domain.NormalizedQuestion{
		ID:           id,
		Question:     raw.Question,
		Options:      options,
		Explanation:  raw.Explanation,
		CorrectIndex: idx,
	}, res
}

// NormalizeQuestions resolves a whole set once, at load time.
func NormalizeQuestions(raws []domain.RawQuestion) ([]domain.NormalizedQuestion, []Resolution) {
	out := make([]domain.NormalizedQuestion, len(raws))
	resolutions := make([]Resolution, len(raws))
	for i, raw := range raws {
		out[i], resolutions[i] = NormalizeQuestion(raw, i)
	}
	return out, resolutions
}
