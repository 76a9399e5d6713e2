package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"quiz-attempt-service/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateQuestionSet checks that a loaded set is usable for an attempt.
func ValidateQuestionSet(set domain.QuestionSet) error {
	if err := validate.Struct(set); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidQuestionSet, describe(err))
	}
	return nil
}

// ValidateParticipant checks the identity attached to a submission.
func ValidateParticipant(who domain.Participant) error {
	if err := validate.Struct(who); err != nil {
		return fmt.Errorf("invalid participant: %s", describe(err))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
