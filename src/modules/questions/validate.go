package questions

import (
	"fmt"

	"quizservice/src/core/errs"
	"quizservice/src/core/models"
)

// Validation bounds.
const (
	textMinLength = 1
	textMaxLength = 500

	shortAnswerMaxLength = 250
	longAnswerMaxLength  = 500

	pointsMin = 0
	pointsMax = 100
)

// answerValidator checks the answer payload for one question type and returns
// it normalized to its canonical Go shape (string, bool or []string). Each
// question type carries its own validator; adding a type means adding one
// entry to the table below.
type answerValidator func(options []string, answer interface{}) (interface{}, error)

var answerValidators = map[models.QuestionType]answerValidator{
	models.MultipleChoice: validateMultipleChoiceAnswer,
	models.TrueFalse:      validateTrueFalseAnswer,
	models.FillInTheBlank: validateFillInTheBlankAnswer,
	models.ShortAnswer:    validateShortAnswerAnswer,
	models.LongAnswer:     validateLongAnswerAnswer,
}

// Validate applies the question shape rules in their fixed order: type, text,
// options, answer, points. The first failing rule short-circuits the rest.
func Validate(qType models.QuestionType, text string, options []string, answer interface{}, points int) error {
	if err := validateType(qType); err != nil {
		return err
	}
	if err := validateText(text); err != nil {
		return err
	}
	if err := validateOptions(qType, options); err != nil {
		return err
	}
	if _, err := normalizeAnswer(qType, options, answer); err != nil {
		return err
	}
	return validatePoints(points)
}

func validateType(qType models.QuestionType) error {
	if !models.ValidQuestionType(qType) {
		return errs.NewValidation("Invalid 'type'.")
	}
	return nil
}

func validateText(text string) error {
	if len(text) < textMinLength || len(text) > textMaxLength {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'text', it must be a string between %d and %d characters.",
			textMinLength, textMaxLength))
	}
	return nil
}

// validateOptions enforces the hard either/or: options is an array of strings
// iff the type is multiple-choice, and null for every other type.
func validateOptions(qType models.QuestionType, options []string) error {
	if qType == models.MultipleChoice {
		if options == nil {
			return errs.NewValidation(
				"Invalid 'options', it must be an array of strings for Multiple-Choice questions.")
		}
		return nil
	}
	if options != nil {
		return errs.NewValidation(
			"Invalid 'options', it must be null for question types other than Multiple-Choice.")
	}
	return nil
}

func normalizeAnswer(qType models.QuestionType, options []string, answer interface{}) (interface{}, error) {
	validate, ok := answerValidators[qType]
	if !ok {
		return nil, errs.NewValidation("Invalid 'type'.")
	}
	return validate(options, answer)
}

func validatePoints(points int) error {
	if points < pointsMin || points > pointsMax {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'points', it must be an integer between %d and %d.",
			pointsMin, pointsMax))
	}
	return nil
}

func validateMultipleChoiceAnswer(options []string, answer interface{}) (interface{}, error) {
	s, ok := asString(answer)
	if !ok {
		return nil, errs.NewValidation(
			"Invalid 'answer', it must be one of the provided options for Multiple-Choice questions.")
	}
	for _, option := range options {
		if option == s {
			return s, nil
		}
	}
	return nil, errs.NewValidation(
		"Invalid 'answer', it must be one of the provided options for Multiple-Choice questions.")
}

func validateTrueFalseAnswer(_ []string, answer interface{}) (interface{}, error) {
	b, ok := answer.(bool)
	if !ok {
		return nil, errs.NewValidation(
			"Invalid 'answer', it must be a boolean for True/False questions.")
	}
	return b, nil
}

func validateFillInTheBlankAnswer(_ []string, answer interface{}) (interface{}, error) {
	blanks, ok := asStringSlice(answer)
	if !ok {
		return nil, errs.NewValidation(
			"Invalid 'answer', it must be an array of strings for Fill-In-The-Blank questions.")
	}
	return blanks, nil
}

func validateShortAnswerAnswer(_ []string, answer interface{}) (interface{}, error) {
	s, ok := asString(answer)
	if !ok || len(s) < 1 || len(s) > shortAnswerMaxLength {
		return nil, errs.NewValidation(fmt.Sprintf(
			"Invalid 'answer', it must be a string between 1 and %d characters for Short-Answer questions.",
			shortAnswerMaxLength))
	}
	return s, nil
}

func validateLongAnswerAnswer(_ []string, answer interface{}) (interface{}, error) {
	s, ok := asString(answer)
	if !ok || len(s) < 1 || len(s) > longAnswerMaxLength {
		return nil, errs.NewValidation(fmt.Sprintf(
			"Invalid 'answer', it must be a string between 1 and %d characters for Long-Answer questions.",
			longAnswerMaxLength))
	}
	return s, nil
}

func asString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asStringSlice accepts []string as well as []interface{} holding only
// strings, which is the shape arrays come back in from JSON decoding and from
// the document store.
func asStringSlice(v interface{}) ([]string, bool) {
	switch vs := v.(type) {
	case []string:
		return vs, true
	case []interface{}:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// AnswerEquals reports whether a submitted answer matches the stored correct
// answer, comparing on the question type's canonical shape. Payloads that do
// not even have the right shape simply compare unequal.
func AnswerEquals(qType models.QuestionType, correct, submitted interface{}) bool {
	switch qType {
	case models.TrueFalse:
		a, okA := correct.(bool)
		b, okB := submitted.(bool)
		return okA && okB && a == b
	case models.FillInTheBlank:
		a, okA := asStringSlice(correct)
		b, okB := asStringSlice(submitted)
		if !okA || !okB || len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	default:
		a, okA := asString(correct)
		b, okB := asString(submitted)
		return okA && okB && a == b
	}
}
