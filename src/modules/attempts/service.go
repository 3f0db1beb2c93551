package attempts

import (
	"time"

	"github.com/globalsign/mgo/bson"
	"github.com/google/uuid"

	"quizservice/src/core/errs"
	"quizservice/src/core/models"
	"quizservice/src/core/store"
	"quizservice/src/modules/questions"
	"quizservice/src/modules/quizzes"
)

// Service starts and submits quiz attempts for (tenant, user) pairs and
// computes attempt analyses.
type Service struct {
	registry *store.Registry
	quizzes  *quizzes.Service
	locks    *userLocks
}

func NewService(registry *store.Registry, quizSvc *quizzes.Service) *Service {
	return &Service{
		registry: registry,
		quizzes:  quizSvc,
		locks:    newUserLocks(),
	}
}

// ResponseInput is one submitted answer.
type ResponseInput struct {
	QuestionID string      `json:"question_id"`
	Answer     interface{} `json:"answer"`
}

// QuestionView is a question as shown during an active attempt: the correct
// answer is stripped so it can never leak mid-attempt.
type QuestionView struct {
	ID      string              `json:"id"`
	Type    models.QuestionType `json:"type"`
	Text    string              `json:"text"`
	Options []string            `json:"options"`
	Points  int                 `json:"points"`
}

// QuizView is the quiz as shown to the taking user: attempt bookkeeping
// (attemptLimit, lifecycle status) is stripped.
type QuizView struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Categories   []string          `json:"categories"`
	Difficulty   models.Difficulty `json:"difficulty"`
	TimeLimit    *int              `json:"time_limit"`
	DueDate      *time.Time        `json:"due_date"`
	PassingScore int               `json:"passing_score"`
}

// StartResult is returned by StartQuiz.
type StartResult struct {
	Attempt   *models.Attempt `json:"attempt"`
	Quiz      *QuizView       `json:"quiz"`
	Questions []*QuestionView `json:"questions"`
}

// ResponseView joins a scored response with its question; after submission
// the correct answer is safe to reveal.
type ResponseView struct {
	ID       string           `json:"id"`
	Question *models.Question `json:"question"`
	Answer   interface{}      `json:"answer"`
	Score    int              `json:"score"`
}

// SubmitResult is the denormalized view returned by SubmitQuiz.
type SubmitResult struct {
	Attempt   *models.Attempt `json:"attempt"`
	Quiz      *QuizView       `json:"quiz"`
	Responses []*ResponseView `json:"responses"`
}

// Analysis summarizes a submitted attempt.
type Analysis struct {
	AnsweredQuestions   int `json:"answeredQuestions"`
	UnansweredQuestions int `json:"unansweredQuestions"`
	CorrectAnswers      int `json:"correctAnswers"`
	IncorrectAnswers    int `json:"incorrectAnswers"`
	TimeTaken           int `json:"timeTaken"`
	Score               int `json:"score"`
}

func validateUUID(id, message string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidation(message)
	}
	return nil
}

func quizView(quiz *models.Quiz) *QuizView {
	return &QuizView{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		Categories:   quiz.Categories,
		Difficulty:   quiz.Difficulty,
		TimeLimit:    quiz.TimeLimit,
		DueDate:      quiz.DueDate,
		PassingScore: quiz.PassingScore,
	}
}

// StartQuiz opens a new attempt on a published quiz. For any (tenant, user)
// at most one attempt may be in the started state across all quizzes, and the
// total number of attempts per quiz may not exceed the quiz's attempt limit.
// Both checks run under the per-(tenant, user) lock so that concurrent starts
// cannot slip between the check and the create.
func (s *Service) StartQuiz(tenantID, userID, quizID string) (*StartResult, error) {
	if err := validateUUID(userID, "Invalid user ID, it must be a UUID."); err != nil {
		return nil, err
	}
	if err := validateUUID(quizID, "Invalid quiz ID, it must be a UUID."); err != nil {
		return nil, err
	}

	quiz, quizQuestions, err := s.quizzes.RetrieveQuiz(tenantID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != models.QuizPublished {
		return nil, errs.NewNotExist("There is no published quiz with this ID.")
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(tenantID, userID)
	defer unlock()

	// Anchor attempt ownership; the user record is an id-only placeholder.
	var user models.User
	if err := stores.Users.FindByID(userID, &user); err != nil {
		if err != store.ErrNotFound {
			return nil, err
		}
		if err := stores.Users.Insert(&models.User{ID: userID}); err != nil && err != store.ErrDuplicate {
			return nil, err
		}
	}

	if quiz.AttemptLimit != nil {
		count, err := stores.Attempts.Count(bson.M{"user": userID, "quiz": quizID})
		if err != nil {
			return nil, err
		}
		if count >= *quiz.AttemptLimit {
			return nil, errs.NewAttemptLimit("The attempt limit for this quiz has been reached.")
		}
	}

	active, err := stores.Attempts.Count(bson.M{"user": userID, "status": models.AttemptStarted})
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, errs.NewActiveAttempt("There is already an attempt in progress for this user.")
	}

	attempt := &models.Attempt{
		ID:        uuid.NewString(),
		UserID:    userID,
		QuizID:    quizID,
		StartedAt: time.Now().UTC(),
		Status:    models.AttemptStarted,
		Responses: []string{},
	}
	if err := stores.Attempts.Insert(attempt); err != nil {
		// The storage layer's unique active-attempt constraint may reject the
		// insert when another process won the race.
		if err == store.ErrDuplicate {
			return nil, errs.NewActiveAttempt("There is already an attempt in progress for this user.")
		}
		return nil, err
	}

	views := make([]*QuestionView, 0, len(quizQuestions))
	for _, question := range quizQuestions {
		views = append(views, &QuestionView{
			ID:      question.ID,
			Type:    question.Type,
			Text:    question.Text,
			Options: question.Options,
			Points:  question.Points,
		})
	}

	return &StartResult{
		Attempt:   attempt,
		Quiz:      quizView(quiz),
		Questions: views,
	}, nil
}

// SubmitQuiz scores the submitted responses against the quiz's questions and
// closes the attempt. A response earns the question's full points on an exact
// answer match and zero otherwise.
func (s *Service) SubmitQuiz(tenantID, userID, attemptID string, responses []ResponseInput) (*SubmitResult, error) {
	if err := validateUUID(userID, "Invalid user ID, it must be a UUID."); err != nil {
		return nil, err
	}
	if err := validateUUID(attemptID, "Invalid attempt ID, it must be a UUID."); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	// Serialized with StartQuiz and with concurrent submits of the same
	// user so the submitted-once invariant holds.
	unlock := s.locks.acquire(tenantID, userID)
	defer unlock()

	var attempt models.Attempt
	if err := stores.Attempts.FindByID(attemptID, &attempt); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no attempt with this ID.")
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, errs.NewValidation("This attempt does not belong to this user.")
	}
	if attempt.Status == models.AttemptSubmitted {
		return nil, errs.NewInvalidStatus("This attempt has already been submitted.")
	}

	quiz, quizQuestions, err := s.quizzes.RetrieveQuiz(tenantID, attempt.QuizID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Question, len(quizQuestions))
	for _, question := range quizQuestions {
		byID[question.ID] = question
	}
	for _, response := range responses {
		if _, ok := byID[response.QuestionID]; !ok {
			return nil, errs.NewValidation("A response references a question that is not part of this quiz.")
		}
	}

	totalScore := 0
	responseIDs := make([]string, 0, len(responses))
	views := make([]*ResponseView, 0, len(responses))
	for _, response := range responses {
		question := byID[response.QuestionID]

		score := 0
		if questions.AnswerEquals(question.Type, question.Answer, response.Answer) {
			score = question.Points
		}

		record := &models.Response{
			ID:         uuid.NewString(),
			QuestionID: response.QuestionID,
			Answer:     response.Answer,
			Score:      score,
		}
		if err := stores.Responses.Insert(record); err != nil {
			return nil, err
		}

		totalScore += score
		responseIDs = append(responseIDs, record.ID)
		views = append(views, &ResponseView{
			ID:       record.ID,
			Question: question,
			Answer:   record.Answer,
			Score:    record.Score,
		})
	}

	now := time.Now().UTC()
	err = stores.Attempts.UpdateByID(attemptID, bson.M{
		"status":      models.AttemptSubmitted,
		"submittedAt": now,
		"responses":   responseIDs,
		"score":       totalScore,
	})
	if err != nil {
		return nil, err
	}

	attempt.Status = models.AttemptSubmitted
	attempt.SubmittedAt = &now
	attempt.Responses = responseIDs
	attempt.Score = totalScore

	return &SubmitResult{
		Attempt:   &attempt,
		Quiz:      quizView(quiz),
		Responses: views,
	}, nil
}

// RetrieveAttemptAnalysis summarizes a submitted attempt for its owner.
func (s *Service) RetrieveAttemptAnalysis(tenantID, userID, attemptID string) (*Analysis, error) {
	if err := validateUUID(userID, "Invalid user ID, it must be a UUID."); err != nil {
		return nil, err
	}
	if err := validateUUID(attemptID, "Invalid attempt ID, it must be a UUID."); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	var attempt models.Attempt
	if err := stores.Attempts.FindByID(attemptID, &attempt); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no attempt with this ID.")
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, errs.NewValidation("This attempt does not belong to this user.")
	}
	if attempt.Status != models.AttemptSubmitted || attempt.SubmittedAt == nil {
		return nil, errs.NewInvalidStatus("This attempt has not been submitted yet.")
	}

	var quiz models.Quiz
	if err := stores.Quizzes.FindByID(attempt.QuizID, &quiz); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no quiz with this ID.")
		}
		return nil, err
	}

	analysis := &Analysis{
		TimeTaken: int(attempt.SubmittedAt.Sub(attempt.StartedAt).Seconds()),
	}
	for _, responseID := range attempt.Responses {
		var response models.Response
		if err := stores.Responses.FindByID(responseID, &response); err != nil {
			return nil, err
		}
		analysis.AnsweredQuestions++
		if response.Score > 0 {
			analysis.CorrectAnswers++
			analysis.Score += response.Score
		} else {
			analysis.IncorrectAnswers++
		}
	}
	analysis.UnansweredQuestions = len(quiz.Questions) - analysis.AnsweredQuestions

	return analysis, nil
}
