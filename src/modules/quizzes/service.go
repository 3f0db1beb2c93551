package quizzes

import (
	"fmt"
	"time"

	"github.com/globalsign/mgo/bson"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"quizservice/src/core/errs"
	"quizservice/src/core/logger"
	"quizservice/src/core/models"
	"quizservice/src/core/store"
	"quizservice/src/modules/questions"
	"quizservice/src/utils"
)

// Validation bounds.
const (
	titleMinLength       = 1
	titleMaxLength       = 200
	descriptionMinLength = 1
	descriptionMaxLength = 500
	categoryMaxLength    = 50
	timeLimitMinSeconds  = 60
	passingScoreMin      = 0
	passingScoreMax      = 100
)

// Service owns quiz CRUD, the lifecycle state machine and the question-list
// mutations that are only legal while a quiz is drafted.
type Service struct {
	registry  *store.Registry
	questions *questions.Service
}

func NewService(registry *store.Registry, questionSvc *questions.Service) *Service {
	return &Service{registry: registry, questions: questionSvc}
}

// QuizInput carries a create or partial-update payload. Pointer fields
// distinguish "absent" (keep the stored value on update) from the zero value.
// A nil TimeLimit/AttemptLimit on create means unlimited; on update it keeps
// the stored limit.
type QuizInput struct {
	Title        *string                   `json:"title"`
	Description  *string                   `json:"description"`
	Categories   []string                  `json:"categories"`
	Difficulty   *models.Difficulty        `json:"difficulty"`
	TimeLimit    *int                      `json:"time_limit"`
	AttemptLimit *int                      `json:"attempt_limit"`
	DueDate      *time.Time                `json:"due_date"`
	PassingScore *int                      `json:"passing_score"`
	Questions    []questions.QuestionInput `json:"questions"`
}

// Pagination describes one page of a quiz listing.
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// Validations

func validateQuizID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidation("Invalid quiz ID, it must be a UUID.")
	}
	return nil
}

func validateTitle(title string) error {
	if len(title) < titleMinLength || len(title) > titleMaxLength {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'title', it must be a string between %d and %d characters.",
			titleMinLength, titleMaxLength))
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) < descriptionMinLength || len(description) > descriptionMaxLength {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'description', it must be a string between %d and %d characters.",
			descriptionMinLength, descriptionMaxLength))
	}
	return nil
}

func validateCategories(categories []string) error {
	for _, category := range categories {
		if category == "" || len(category) > categoryMaxLength {
			return errs.NewValidation(fmt.Sprintf(
				"Invalid 'categories', each category must be a non-empty string of at most %d characters.",
				categoryMaxLength))
		}
	}
	return nil
}

func validateDifficulty(difficulty models.Difficulty) error {
	if !models.ValidDifficulty(difficulty) {
		return errs.NewValidation("Invalid 'difficulty', it must be one of easy, medium or hard.")
	}
	return nil
}

func validateTimeLimit(timeLimit *int) error {
	if timeLimit != nil && *timeLimit < timeLimitMinSeconds {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'timeLimit', it must be an integer of at least %d seconds or null.",
			timeLimitMinSeconds))
	}
	return nil
}

func validateAttemptLimit(attemptLimit *int) error {
	if attemptLimit != nil && *attemptLimit < 1 {
		return errs.NewValidation("Invalid 'attemptLimit', it must be an integer of at least 1 or null.")
	}
	return nil
}

func validateDueDate(dueDate *time.Time) error {
	if dueDate != nil && dueDate.IsZero() {
		return errs.NewValidation("Invalid 'dueDate', it must be a timestamp or null.")
	}
	return nil
}

func validatePassingScore(passingScore int) error {
	if passingScore < passingScoreMin || passingScore > passingScoreMax {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'passingScore', it must be an integer between %d and %d.",
			passingScoreMin, passingScoreMax))
	}
	return nil
}

func validateFields(title, description string, categories []string, difficulty models.Difficulty,
	timeLimit, attemptLimit *int, dueDate *time.Time, passingScore int) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if err := validateCategories(categories); err != nil {
		return err
	}
	if err := validateDifficulty(difficulty); err != nil {
		return err
	}
	if err := validateTimeLimit(timeLimit); err != nil {
		return err
	}
	if err := validateAttemptLimit(attemptLimit); err != nil {
		return err
	}
	if err := validateDueDate(dueDate); err != nil {
		return err
	}
	return validatePassingScore(passingScore)
}

// Use cases

// CreateQuiz validates the payload, creates the quiz in the drafted state and
// batch-creates any supplied questions. When a question fails validation the
// quiz and every question created so far are deleted again and the validation
// error is returned.
func (s *Service) CreateQuiz(tenantID string, in QuizInput) (*models.Quiz, []*models.Question, error) {
	var (
		title        string
		description  string
		passingScore int
		difficulty   = models.DifficultyEasy
	)
	if in.Title != nil {
		title = *in.Title
	}
	if in.Description != nil {
		description = *in.Description
	}
	if in.Difficulty != nil {
		difficulty = *in.Difficulty
	}
	if in.PassingScore != nil {
		passingScore = *in.PassingScore
	}
	categories := utils.RemoveDuplicates(in.Categories)

	err := validateFields(title, description, categories, difficulty,
		in.TimeLimit, in.AttemptLimit, in.DueDate, passingScore)
	if err != nil {
		return nil, nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	quiz := &models.Quiz{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  description,
		Categories:   categories,
		Difficulty:   difficulty,
		TimeLimit:    in.TimeLimit,
		AttemptLimit: in.AttemptLimit,
		DueDate:      in.DueDate,
		PassingScore: passingScore,
		Status:       models.QuizDrafted,
		Questions:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := stores.Quizzes.Insert(quiz); err != nil {
		return nil, nil, err
	}

	created, err := s.questions.CreateQuestions(tenantID, quiz.ID, in.Questions)
	if err != nil {
		// The question batch already rolled itself back; compensate for the
		// quiz document as well.
		if delErr := stores.Quizzes.DeleteByID(quiz.ID); delErr != nil {
			logger.Log.WithError(delErr).WithField("quiz_id", quiz.ID).
				Error("Failed to roll back quiz after question batch failure")
		}
		return nil, nil, err
	}

	if len(created) > 0 {
		ids := make([]string, len(created))
		for i, question := range created {
			ids[i] = question.ID
		}
		quiz.Questions = ids
		if err := stores.Quizzes.UpdateByID(quiz.ID, bson.M{"questions": ids, "updatedAt": now}); err != nil {
			return nil, nil, err
		}
	}
	return quiz, created, nil
}

func (s *Service) loadQuiz(tenantID, quizID string) (*models.Quiz, error) {
	if err := validateQuizID(quizID); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	var quiz models.Quiz
	if err := stores.Quizzes.FindByID(quizID, &quiz); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no quiz with this ID.")
		}
		return nil, err
	}
	return &quiz, nil
}

func (s *Service) requireDrafted(quiz *models.Quiz) error {
	if quiz.Status != models.QuizDrafted {
		return errs.NewInvalidStatus("This quiz is not drafted and cannot be updated.")
	}
	return nil
}

// UpdateQuiz applies a partial update to a drafted quiz: absent fields fall
// back to the stored values, then the merged payload is re-validated in full.
func (s *Service) UpdateQuiz(tenantID, quizID string, in QuizInput) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireDrafted(quiz); err != nil {
		return nil, err
	}

	if in.Title != nil {
		quiz.Title = *in.Title
	}
	if in.Description != nil {
		quiz.Description = *in.Description
	}
	if in.Categories != nil {
		quiz.Categories = utils.RemoveDuplicates(in.Categories)
	}
	if in.Difficulty != nil {
		quiz.Difficulty = *in.Difficulty
	}
	if in.TimeLimit != nil {
		quiz.TimeLimit = in.TimeLimit
	}
	if in.AttemptLimit != nil {
		quiz.AttemptLimit = in.AttemptLimit
	}
	if in.DueDate != nil {
		quiz.DueDate = in.DueDate
	}
	if in.PassingScore != nil {
		quiz.PassingScore = *in.PassingScore
	}

	err = validateFields(quiz.Title, quiz.Description, quiz.Categories, quiz.Difficulty,
		quiz.TimeLimit, quiz.AttemptLimit, quiz.DueDate, quiz.PassingScore)
	if err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	quiz.UpdatedAt = time.Now().UTC()
	err = stores.Quizzes.UpdateByID(quizID, bson.M{
		"title":        quiz.Title,
		"description":  quiz.Description,
		"categories":   quiz.Categories,
		"difficulty":   quiz.Difficulty,
		"timeLimit":    quiz.TimeLimit,
		"attemptLimit": quiz.AttemptLimit,
		"dueDate":      quiz.DueDate,
		"passingScore": quiz.PassingScore,
		"updatedAt":    quiz.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

// applyEvent runs one lifecycle transition through the FSM table and persists
// the resulting status.
func (s *Service) applyEvent(tenantID, quizID string, event Event) (*models.Quiz, error) {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return nil, err
	}

	next, err := nextStatus(quiz.Status, event)
	if err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	quiz.Status = next
	quiz.UpdatedAt = time.Now().UTC()
	err = stores.Quizzes.UpdateByID(quizID, bson.M{"status": next, "updatedAt": quiz.UpdatedAt})
	if err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *Service) PublishQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventPublish)
}

func (s *Service) UnpublishQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventUnpublish)
}

func (s *Service) ArchiveQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventArchive)
}

func (s *Service) UnarchiveQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventUnarchive)
}

// SoftDeleteQuiz marks the quiz deleted; the document and its questions stay
// in the store so RestoreQuiz can bring them back.
func (s *Service) SoftDeleteQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventSoftDelete)
}

func (s *Service) RestoreQuiz(tenantID, quizID string) (*models.Quiz, error) {
	return s.applyEvent(tenantID, quizID, EventRestore)
}

// HardDeleteQuiz physically removes a drafted quiz together with every
// question it owns. The questions go first so that a failure cannot leave a
// quiz pointing at deleted questions.
func (s *Service) HardDeleteQuiz(tenantID, quizID string) error {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return err
	}
	if quiz.Status != models.QuizDrafted {
		return errs.NewInvalidStatus("Only drafted quizzes can be permanently deleted.")
	}

	for _, questionID := range quiz.Questions {
		if err := s.questions.DeleteQuestion(tenantID, questionID); err != nil {
			var notExist *errs.NotExistError
			if errors.As(err, &notExist) {
				continue
			}
			return err
		}
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return err
	}
	if err := stores.Quizzes.DeleteByID(quizID); err != nil && err != store.ErrNotFound {
		return err
	}
	return nil
}

// RetrieveQuiz returns the quiz and its full question list in display order.
func (s *Service) RetrieveQuiz(tenantID, quizID string) (*models.Quiz, []*models.Question, error) {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return nil, nil, err
	}

	loaded := make([]*models.Question, 0, len(quiz.Questions))
	for _, questionID := range quiz.Questions {
		question, err := s.questions.RetrieveQuestion(tenantID, questionID, "")
		if err != nil {
			return nil, nil, err
		}
		loaded = append(loaded, question)
	}
	return quiz, loaded, nil
}

// RetrieveQuizzes pages through the tenant's quizzes with the given status.
func (s *Service) RetrieveQuizzes(tenantID string, status models.QuizStatus, page, limit int) ([]*models.Quiz, *Pagination, error) {
	if status == "" {
		status = models.QuizPublished
	}
	if !models.ValidQuizStatus(status) {
		return nil, nil, errs.NewValidation("Invalid 'status'.")
	}
	if page < 1 {
		return nil, nil, errs.NewValidation("Invalid 'page', it must be a positive integer.")
	}
	if limit < 1 {
		return nil, nil, errs.NewValidation("Invalid 'limit', it must be a positive integer.")
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, nil, err
	}

	var quizzes []*models.Quiz
	if err := stores.Quizzes.Find(bson.M{"status": status}, (page-1)*limit, limit, &quizzes); err != nil {
		return nil, nil, err
	}

	totalCount, err := stores.Quizzes.Count(bson.M{"status": status})
	if err != nil {
		return nil, nil, err
	}

	return quizzes, &Pagination{
		Page:       page,
		TotalPages: (totalCount + limit - 1) / limit,
	}, nil
}

// AddQuestion appends a new question to a drafted quiz.
func (s *Service) AddQuestion(tenantID, quizID string, in questions.QuestionInput) (*models.Question, error) {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireDrafted(quiz); err != nil {
		return nil, err
	}

	question, err := s.questions.CreateQuestion(tenantID, quizID, in)
	if err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	ids := append(quiz.Questions, question.ID)
	err = stores.Quizzes.UpdateByID(quizID, bson.M{"questions": ids, "updatedAt": time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	return question, nil
}

// UpdateQuestion updates a question that belongs to a drafted quiz.
func (s *Service) UpdateQuestion(tenantID, quizID, questionID string, in questions.QuestionInput) (*models.Question, error) {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.requireDrafted(quiz); err != nil {
		return nil, err
	}
	if !containsID(quiz.Questions, questionID) {
		return nil, errs.NewNotExist("There is no question with this ID for this quiz.")
	}
	return s.questions.UpdateQuestion(tenantID, questionID, in)
}

// RemoveQuestion deletes a question from a drafted quiz and drops it from the
// quiz's ordered list.
func (s *Service) RemoveQuestion(tenantID, quizID, questionID string) error {
	quiz, err := s.loadQuiz(tenantID, quizID)
	if err != nil {
		return err
	}
	if err := s.requireDrafted(quiz); err != nil {
		return err
	}
	if !containsID(quiz.Questions, questionID) {
		return errs.NewNotExist("There is no question with this ID for this quiz.")
	}

	if err := s.questions.DeleteQuestion(tenantID, questionID); err != nil {
		return err
	}

	ids := make([]string, 0, len(quiz.Questions)-1)
	for _, id := range quiz.Questions {
		if id != questionID {
			ids = append(ids, id)
		}
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return err
	}
	return stores.Quizzes.UpdateByID(quizID, bson.M{"questions": ids, "updatedAt": time.Now().UTC()})
}

func containsID(ids []string, id string) bool {
	for _, other := range ids {
		if other == id {
			return true
		}
	}
	return false
}
