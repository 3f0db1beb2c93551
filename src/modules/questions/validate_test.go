package questions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"quizservice/src/core/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		qType   models.QuestionType
		text    string
		options []string
		answer  interface{}
		points  int
		wantErr string
	}{
		{
			name:    "multiple choice valid",
			qType:   models.MultipleChoice,
			text:    "Pick one",
			options: []string{"a", "b"},
			answer:  "a",
			points:  5,
		},
		{
			name:    "multiple choice answer not an option",
			qType:   models.MultipleChoice,
			text:    "Pick one",
			options: []string{"a", "b"},
			answer:  "c",
			points:  5,
			wantErr: "Invalid 'answer', it must be one of the provided options for Multiple-Choice questions.",
		},
		{
			name:    "multiple choice without options",
			qType:   models.MultipleChoice,
			text:    "Pick one",
			answer:  "a",
			points:  5,
			wantErr: "Invalid 'options', it must be an array of strings for Multiple-Choice questions.",
		},
		{
			name:   "true false valid",
			qType:  models.TrueFalse,
			text:   "Is it so",
			answer: true,
			points: 1,
		},
		{
			name:    "true false with options",
			qType:   models.TrueFalse,
			text:    "Is it so",
			options: []string{"true", "false"},
			answer:  true,
			points:  1,
			wantErr: "Invalid 'options', it must be null for question types other than Multiple-Choice.",
		},
		{
			name:    "true false non boolean answer",
			qType:   models.TrueFalse,
			text:    "Is it so",
			answer:  "true",
			points:  1,
			wantErr: "Invalid 'answer', it must be a boolean for True/False questions.",
		},
		{
			name:   "fill in the blank valid",
			qType:  models.FillInTheBlank,
			text:   "The _ jumps over the _",
			answer: []string{"fox", "dog"},
			points: 2,
		},
		{
			name:   "fill in the blank decoded array valid",
			qType:  models.FillInTheBlank,
			text:   "The _ jumps over the _",
			answer: []interface{}{"fox", "dog"},
			points: 2,
		},
		{
			name:    "fill in the blank mixed array",
			qType:   models.FillInTheBlank,
			text:    "The _ jumps over the _",
			answer:  []interface{}{"fox", 2},
			points:  2,
			wantErr: "Invalid 'answer', it must be an array of strings for Fill-In-The-Blank questions.",
		},
		{
			name:   "short answer valid",
			qType:  models.ShortAnswer,
			text:   "Name the capital",
			answer: "Paris",
			points: 3,
		},
		{
			name:    "short answer too long",
			qType:   models.ShortAnswer,
			text:    "Name the capital",
			answer:  strings.Repeat("a", 251),
			points:  3,
			wantErr: "Invalid 'answer', it must be a string between 1 and 250 characters for Short-Answer questions.",
		},
		{
			name:   "long answer at limit",
			qType:  models.LongAnswer,
			text:   "Explain",
			answer: strings.Repeat("a", 500),
			points: 10,
		},
		{
			name:    "long answer too long",
			qType:   models.LongAnswer,
			text:    "Explain",
			answer:  strings.Repeat("a", 501),
			points:  10,
			wantErr: "Invalid 'answer', it must be a string between 1 and 500 characters for Long-Answer questions.",
		},
		{
			name:    "unknown type reported before text",
			qType:   "essay",
			text:    "",
			answer:  "x",
			points:  1,
			wantErr: "Invalid 'type'.",
		},
		{
			name:    "text too long",
			qType:   models.ShortAnswer,
			text:    strings.Repeat("a", 501),
			answer:  "x",
			points:  1,
			wantErr: "Invalid 'text', it must be a string between 1 and 500 characters.",
		},
		{
			name:    "text reported before bad points",
			qType:   models.ShortAnswer,
			text:    "",
			answer:  "x",
			points:  -1,
			wantErr: "Invalid 'text', it must be a string between 1 and 500 characters.",
		},
		{
			name:    "points above range",
			qType:   models.ShortAnswer,
			text:    "Name the capital",
			answer:  "Paris",
			points:  101,
			wantErr: "Invalid 'points', it must be an integer between 0 and 100.",
		},
		{
			name:   "zero points allowed",
			qType:  models.ShortAnswer,
			text:   "Name the capital",
			answer: "Paris",
			points: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.qType, tt.text, tt.options, tt.answer, tt.points)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestAnswerEquals(t *testing.T) {
	tests := []struct {
		name      string
		qType     models.QuestionType
		correct   interface{}
		submitted interface{}
		want      bool
	}{
		{"multiple choice match", models.MultipleChoice, "a", "a", true},
		{"multiple choice mismatch", models.MultipleChoice, "a", "b", false},
		{"true false match", models.TrueFalse, true, true, true},
		{"true false mismatch", models.TrueFalse, true, false, false},
		{"true false wrong shape", models.TrueFalse, true, "true", false},
		{"fill in the blank match", models.FillInTheBlank, []string{"fox", "dog"}, []string{"fox", "dog"}, true},
		{"fill in the blank order matters", models.FillInTheBlank, []string{"fox", "dog"}, []string{"dog", "fox"}, false},
		{"fill in the blank decoded shapes", models.FillInTheBlank, []interface{}{"fox"}, []string{"fox"}, true},
		{"fill in the blank length mismatch", models.FillInTheBlank, []string{"fox", "dog"}, []string{"fox"}, false},
		{"short answer match", models.ShortAnswer, "Paris", "Paris", true},
		{"short answer case sensitive", models.ShortAnswer, "Paris", "paris", false},
		{"long answer wrong shape", models.LongAnswer, "text", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnswerEquals(tt.qType, tt.correct, tt.submitted))
		})
	}
}
