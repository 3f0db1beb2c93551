package models

import (
	"time"
)

type AttemptStatus string

const (
	AttemptStarted   AttemptStatus = "started"
	AttemptSubmitted AttemptStatus = "submitted"
)

// Attempt is one user's pass at a published quiz. It is created in the
// started state and transitions exactly once to submitted, after which it is
// immutable. Score is only meaningful once Status == submitted.
type Attempt struct {
	ID          string        `bson:"_id" json:"id"`
	UserID      string        `bson:"user" json:"user_id"`
	QuizID      string        `bson:"quiz" json:"quiz_id"`
	StartedAt   time.Time     `bson:"startedAt" json:"started_at"`
	SubmittedAt *time.Time    `bson:"submittedAt" json:"submitted_at"`
	Status      AttemptStatus `bson:"status" json:"status"`
	Responses   []string      `bson:"responses" json:"responses"`
	Score       int           `bson:"score" json:"score"`
}
