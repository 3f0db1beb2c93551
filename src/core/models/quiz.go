package models

import (
	"time"
)

type QuizStatus string

const (
	QuizDrafted   QuizStatus = "drafted"
	QuizPublished QuizStatus = "published"
	QuizArchived  QuizStatus = "archived"
	QuizDeleted   QuizStatus = "deleted"
)

// ValidQuizStatus reports whether s is one of the four lifecycle states.
func ValidQuizStatus(s QuizStatus) bool {
	switch s {
	case QuizDrafted, QuizPublished, QuizArchived, QuizDeleted:
		return true
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Quiz is the tenant-owned aggregate root. Questions holds the ordered list
// of question IDs; insertion order is display order.
type Quiz struct {
	ID           string     `bson:"_id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	Categories   []string   `bson:"categories" json:"categories"`
	Difficulty   Difficulty `bson:"difficulty" json:"difficulty"`
	TimeLimit    *int       `bson:"timeLimit" json:"time_limit"`
	AttemptLimit *int       `bson:"attemptLimit" json:"attempt_limit"`
	DueDate      *time.Time `bson:"dueDate" json:"due_date"`
	PassingScore int        `bson:"passingScore" json:"passing_score"`
	Status       QuizStatus `bson:"status" json:"status"`
	Questions    []string   `bson:"questions" json:"questions"`
	CreatedAt    time.Time  `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updated_at"`
}
