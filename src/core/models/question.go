package models

import (
	"time"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillInTheBlank QuestionType = "fill-in-the-blank"
	ShortAnswer    QuestionType = "short-answer"
	LongAnswer     QuestionType = "long-answer"
)

func ValidQuestionType(t QuestionType) bool {
	switch t {
	case MultipleChoice, TrueFalse, FillInTheBlank, ShortAnswer, LongAnswer:
		return true
	}
	return false
}

// Question belongs to at most one quiz. QuizID is a back-reference only; the
// quiz's Questions list is the ownership record. Answer's shape depends on
// Type: string for multiple-choice/short-answer/long-answer, bool for
// true-false, []string for fill-in-the-blank.
type Question struct {
	ID        string       `bson:"_id" json:"id"`
	QuizID    string       `bson:"quiz,omitempty" json:"quiz_id,omitempty"`
	Type      QuestionType `bson:"type" json:"type"`
	Text      string       `bson:"text" json:"text"`
	Options   []string     `bson:"options" json:"options"`
	Answer    interface{}  `bson:"answer" json:"answer"`
	Points    int          `bson:"points" json:"points"`
	CreatedAt time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time    `bson:"updatedAt" json:"updated_at"`
}
