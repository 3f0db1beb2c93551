package questions

import (
	"time"

	"github.com/globalsign/mgo/bson"
	"github.com/google/uuid"
	"github.com/remeh/sizedwaitgroup"

	"quizservice/src/core/errs"
	"quizservice/src/core/logger"
	"quizservice/src/core/models"
	"quizservice/src/core/store"
)

// rollbackConcurrency bounds the parallel compensating deletes after a failed
// batch create.
const rollbackConcurrency = 8

// Service validates question payloads and performs CRUD against the tenant's
// question store. It backs both the quiz-scoped question operations (through
// the quizzes module) and the standalone question catalog.
type Service struct {
	registry *store.Registry
}

func NewService(registry *store.Registry) *Service {
	return &Service{registry: registry}
}

// QuestionInput carries a create or partial-update payload. Pointer fields
// distinguish "absent" from the zero value; Options has no such distinction
// because absent and null both mean "no options" for every type but
// multiple-choice.
type QuestionInput struct {
	Type    *models.QuestionType `json:"type"`
	Text    *string              `json:"text"`
	Options []string             `json:"options"`
	Answer  interface{}          `json:"answer"`
	Points  *int                 `json:"points"`
}

func validateQuestionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidation("Invalid question ID, it must be a UUID.")
	}
	return nil
}

// CreateQuestion validates the payload and stores a new question. quizID may
// be empty for catalog questions that belong to no quiz.
func (s *Service) CreateQuestion(tenantID, quizID string, in QuestionInput) (*models.Question, error) {
	var (
		qType  models.QuestionType
		text   string
		points = -1 // out of range, so an absent points field fails validation
	)
	if in.Type != nil {
		qType = *in.Type
	}
	if in.Text != nil {
		text = *in.Text
	}
	if in.Points != nil {
		points = *in.Points
	}

	if err := validateType(qType); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	if err := validateOptions(qType, in.Options); err != nil {
		return nil, err
	}
	answer, err := normalizeAnswer(qType, in.Options, in.Answer)
	if err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	question := &models.Question{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		Type:      qType,
		Text:      text,
		Options:   in.Options,
		Answer:    answer,
		Points:    points,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := stores.Questions.Insert(question); err != nil {
		return nil, err
	}
	return question, nil
}

// CreateQuestions creates a batch all-or-nothing: when the i-th question
// fails, every previously created question is deleted again before the error
// is returned. The rollback is compensating and best-effort; a delete that
// fails is logged, not hidden.
func (s *Service) CreateQuestions(tenantID, quizID string, ins []QuestionInput) ([]*models.Question, error) {
	created := make([]*models.Question, 0, len(ins))

	for _, in := range ins {
		question, err := s.CreateQuestion(tenantID, quizID, in)
		if err != nil {
			s.rollbackQuestions(tenantID, created)
			return nil, err
		}
		created = append(created, question)
	}
	return created, nil
}

func (s *Service) rollbackQuestions(tenantID string, created []*models.Question) {
	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		logger.Log.WithError(err).Error("Rollback aborted: tenant stores unavailable")
		return
	}

	swg := sizedwaitgroup.New(rollbackConcurrency)
	for _, question := range created {
		swg.Add()
		go func(id string) {
			defer swg.Done()
			if err := stores.Questions.DeleteByID(id); err != nil {
				logger.Log.WithError(err).WithField("question_id", id).
					Error("Failed to roll back partially created question")
			}
		}(question.ID)
	}
	swg.Wait()
}

// RetrieveQuestion loads one question. When quizID is non-empty, the question
// must belong to that quiz.
func (s *Service) RetrieveQuestion(tenantID, questionID, quizID string) (*models.Question, error) {
	if err := validateQuestionID(questionID); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	var question models.Question
	if err := stores.Questions.FindByID(questionID, &question); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no question with this ID.")
		}
		return nil, err
	}
	if quizID != "" && question.QuizID != quizID {
		return nil, errs.NewNotExist("There is no question with this ID for this quiz.")
	}
	return &question, nil
}

// UpdateQuestion applies a partial update: absent fields fall back to the
// stored values, then the merged payload is re-validated in full.
func (s *Service) UpdateQuestion(tenantID, questionID string, in QuestionInput) (*models.Question, error) {
	question, err := s.RetrieveQuestion(tenantID, questionID, "")
	if err != nil {
		return nil, err
	}

	qType := question.Type
	if in.Type != nil {
		qType = *in.Type
	}
	text := question.Text
	if in.Text != nil {
		text = *in.Text
	}
	points := question.Points
	if in.Points != nil {
		points = *in.Points
	}
	// Options fall back only while the question stays multiple-choice; for
	// any other effective type a nil input means null, so a type change away
	// from multiple-choice does not drag the old options along.
	options := in.Options
	if options == nil && qType == models.MultipleChoice {
		options = question.Options
	}
	answer := in.Answer
	if answer == nil {
		answer = question.Answer
	}

	if err := validateType(qType); err != nil {
		return nil, err
	}
	if err := validateText(text); err != nil {
		return nil, err
	}
	if err := validateOptions(qType, options); err != nil {
		return nil, err
	}
	normalized, err := normalizeAnswer(qType, options, answer)
	if err != nil {
		return nil, err
	}
	if err := validatePoints(points); err != nil {
		return nil, err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return nil, err
	}

	question.Type = qType
	question.Text = text
	question.Options = options
	question.Answer = normalized
	question.Points = points
	question.UpdatedAt = time.Now().UTC()

	err = stores.Questions.UpdateByID(questionID, bson.M{
		"type":      question.Type,
		"text":      question.Text,
		"options":   question.Options,
		"answer":    question.Answer,
		"points":    question.Points,
		"updatedAt": question.UpdatedAt,
	})
	if err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no question with this ID.")
		}
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes one question outright.
func (s *Service) DeleteQuestion(tenantID, questionID string) error {
	if err := validateQuestionID(questionID); err != nil {
		return err
	}

	stores, err := s.registry.GetStores(tenantID)
	if err != nil {
		return err
	}

	if err := stores.Questions.DeleteByID(questionID); err != nil {
		if err == store.ErrNotFound {
			return errs.NewNotExist("There is no question with this ID.")
		}
		return err
	}
	return nil
}
