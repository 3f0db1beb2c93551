package attempts

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizservice/src/core/errs"
	"quizservice/src/core/models"
	"quizservice/src/core/store"
	"quizservice/src/modules/questions"
	"quizservice/src/modules/quizzes"
)

const testTenant = "tenant-a"

func newTestService() (*Service, *quizzes.Service) {
	registry := store.NewRegistry(store.NewMemoryProvider())
	quizSvc := quizzes.NewService(registry, questions.NewService(registry))
	return NewService(registry, quizSvc), quizSvc
}

func typePtr(v models.QuestionType) *models.QuestionType { return &v }
func strPtr(v string) *string                            { return &v }
func intPtr(v int) *int                                  { return &v }

// publishedQuiz creates and publishes a quiz with one multiple-choice question
// worth 5 points (answer "Paris") and one true/false question worth 3 points
// (answer true).
func publishedQuiz(t *testing.T, quizSvc *quizzes.Service, attemptLimit *int) *models.Quiz {
	t.Helper()
	quiz, _, err := quizSvc.CreateQuiz(testTenant, quizzes.QuizInput{
		Title:        strPtr("Geography basics"),
		Description:  strPtr("Capitals and rivers"),
		AttemptLimit: attemptLimit,
		Questions: []questions.QuestionInput{
			{
				Type:    typePtr(models.MultipleChoice),
				Text:    strPtr("Pick the capital of France"),
				Options: []string{"Paris", "Lyon"},
				Answer:  "Paris",
				Points:  intPtr(5),
			},
			{
				Type:   typePtr(models.TrueFalse),
				Text:   strPtr("The Seine flows through Paris"),
				Answer: true,
				Points: intPtr(3),
			},
		},
	})
	require.NoError(t, err)
	_, err = quizSvc.PublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	return quiz
}

func TestStartQuizStripsAnswers(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	result, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)

	assert.Equal(t, models.AttemptStarted, result.Attempt.Status)
	assert.Equal(t, userID, result.Attempt.UserID)
	assert.Equal(t, quiz.ID, result.Attempt.QuizID)
	assert.Nil(t, result.Attempt.SubmittedAt)

	assert.Equal(t, quiz.ID, result.Quiz.ID)
	require.Len(t, result.Questions, 2)
	assert.Equal(t, "Pick the capital of France", result.Questions[0].Text)
	assert.Equal(t, []string{"Paris", "Lyon"}, result.Questions[0].Options)
}

func TestStartQuizRequiresPublished(t *testing.T) {
	service, quizSvc := newTestService()
	quiz, _, err := quizSvc.CreateQuiz(testTenant, quizzes.QuizInput{
		Title:       strPtr("Geography basics"),
		Description: strPtr("Capitals and rivers"),
	})
	require.NoError(t, err)

	_, err = service.StartQuiz(testTenant, uuid.NewString(), quiz.ID)
	assert.EqualError(t, err, "There is no published quiz with this ID.")
}

func TestStartQuizValidatesIDs(t *testing.T) {
	service, _ := newTestService()

	_, err := service.StartQuiz(testTenant, "not-a-uuid", uuid.NewString())
	assert.EqualError(t, err, "Invalid user ID, it must be a UUID.")

	_, err = service.StartQuiz(testTenant, uuid.NewString(), "not-a-uuid")
	assert.EqualError(t, err, "Invalid quiz ID, it must be a UUID.")
}

func TestStartQuizAttemptLimit(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, intPtr(1))
	userID := uuid.NewString()

	result, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)
	_, err = service.SubmitQuiz(testTenant, userID, result.Attempt.ID, nil)
	require.NoError(t, err)

	_, err = service.StartQuiz(testTenant, userID, quiz.ID)
	assert.EqualError(t, err, "The attempt limit for this quiz has been reached.")

	var limitErr *errs.AttemptLimitError
	assert.True(t, errors.As(err, &limitErr))

	// Another user is unaffected; the limit is per (user, quiz).
	_, err = service.StartQuiz(testTenant, uuid.NewString(), quiz.ID)
	assert.NoError(t, err)
}

func TestStartQuizSingleActiveAttempt(t *testing.T) {
	service, quizSvc := newTestService()
	first := publishedQuiz(t, quizSvc, nil)
	second := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	_, err := service.StartQuiz(testTenant, userID, first.ID)
	require.NoError(t, err)

	_, err = service.StartQuiz(testTenant, userID, first.ID)
	assert.EqualError(t, err, "There is already an attempt in progress for this user.")

	// The invariant spans all quizzes of the tenant, not just the started one.
	_, err = service.StartQuiz(testTenant, userID, second.ID)
	assert.EqualError(t, err, "There is already an attempt in progress for this user.")

	var activeErr *errs.ActiveAttemptError
	assert.True(t, errors.As(err, &activeErr))
}

func TestStartQuizConcurrentSingleWinner(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	const workers = 8
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.StartQuiz(testTenant, userID, quiz.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	started := 0
	rejected := 0
	for err := range results {
		if err == nil {
			started++
			continue
		}
		var activeErr *errs.ActiveAttemptError
		require.True(t, errors.As(err, &activeErr), "unexpected error: %v", err)
		rejected++
	}
	assert.Equal(t, 1, started)
	assert.Equal(t, workers-1, rejected)
}

func TestSubmitQuizScoring(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)

	mcQuestionID := startResult.Questions[0].ID
	tfQuestionID := startResult.Questions[1].ID

	result, err := service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, []ResponseInput{
		{QuestionID: mcQuestionID, Answer: "Paris"},
		{QuestionID: tfQuestionID, Answer: false},
	})
	require.NoError(t, err)

	assert.Equal(t, models.AttemptSubmitted, result.Attempt.Status)
	require.NotNil(t, result.Attempt.SubmittedAt)
	assert.Equal(t, 5, result.Attempt.Score)

	require.Len(t, result.Responses, 2)
	assert.Equal(t, 5, result.Responses[0].Score)
	assert.Equal(t, 0, result.Responses[1].Score)
	assert.Equal(t, mcQuestionID, result.Responses[0].Question.ID)
}

func TestSubmitQuizTwice(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)
	_, err = service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, nil)
	require.NoError(t, err)

	_, err = service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, nil)
	assert.EqualError(t, err, "This attempt has already been submitted.")

	var statusErr *errs.InvalidStatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestSubmitQuizOwnership(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)

	_, err = service.SubmitQuiz(testTenant, uuid.NewString(), startResult.Attempt.ID, nil)
	assert.EqualError(t, err, "This attempt does not belong to this user.")
}

func TestSubmitQuizForeignQuestion(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)

	_, err = service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, []ResponseInput{
		{QuestionID: uuid.NewString(), Answer: "Paris"},
	})
	assert.EqualError(t, err, "A response references a question that is not part of this quiz.")
}

func TestSubmitQuizUnknownAttempt(t *testing.T) {
	service, _ := newTestService()

	_, err := service.SubmitQuiz(testTenant, uuid.NewString(), uuid.NewString(), nil)
	assert.EqualError(t, err, "There is no attempt with this ID.")
}

func TestRetrieveAttemptAnalysis(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)

	_, err = service.RetrieveAttemptAnalysis(testTenant, userID, startResult.Attempt.ID)
	assert.EqualError(t, err, "This attempt has not been submitted yet.")

	_, err = service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, []ResponseInput{
		{QuestionID: startResult.Questions[0].ID, Answer: "Paris"},
	})
	require.NoError(t, err)

	analysis, err := service.RetrieveAttemptAnalysis(testTenant, userID, startResult.Attempt.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, analysis.AnsweredQuestions)
	assert.Equal(t, 1, analysis.UnansweredQuestions)
	assert.Equal(t, 1, analysis.CorrectAnswers)
	assert.Equal(t, 0, analysis.IncorrectAnswers)
	assert.Equal(t, 5, analysis.Score)
	assert.GreaterOrEqual(t, analysis.TimeTaken, 0)
}

func TestRetrieveAttemptAnalysisOwnership(t *testing.T) {
	service, quizSvc := newTestService()
	quiz := publishedQuiz(t, quizSvc, nil)
	userID := uuid.NewString()

	startResult, err := service.StartQuiz(testTenant, userID, quiz.ID)
	require.NoError(t, err)
	_, err = service.SubmitQuiz(testTenant, userID, startResult.Attempt.ID, nil)
	require.NoError(t, err)

	_, err = service.RetrieveAttemptAnalysis(testTenant, uuid.NewString(), startResult.Attempt.ID)
	assert.EqualError(t, err, "This attempt does not belong to this user.")
}
