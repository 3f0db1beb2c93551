package models

// Response is one scored answer inside a submitted attempt. Score is either 0
// or the full points of the question; responses are immutable once created.
type Response struct {
	ID         string      `bson:"_id" json:"id"`
	QuestionID string      `bson:"question" json:"question_id"`
	Answer     interface{} `bson:"answer" json:"answer"`
	Score      int         `bson:"score" json:"score"`
}
