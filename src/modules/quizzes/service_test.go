package quizzes

import (
	"fmt"
	"testing"

	"github.com/globalsign/mgo/bson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizservice/src/core/models"
	"quizservice/src/core/store"
	"quizservice/src/modules/questions"
)

const testTenant = "tenant-a"

func newTestService() (*Service, *store.Registry) {
	registry := store.NewRegistry(store.NewMemoryProvider())
	return NewService(registry, questions.NewService(registry)), registry
}

func typePtr(v models.QuestionType) *models.QuestionType { return &v }
func strPtr(v string) *string                            { return &v }
func intPtr(v int) *int                                  { return &v }

func shortAnswerInput(text string) questions.QuestionInput {
	return questions.QuestionInput{
		Type:   typePtr(models.ShortAnswer),
		Text:   strPtr(text),
		Answer: "Paris",
		Points: intPtr(5),
	}
}

func createDraftedQuiz(t *testing.T, service *Service, questionInputs ...questions.QuestionInput) *models.Quiz {
	t.Helper()
	quiz, _, err := service.CreateQuiz(testTenant, QuizInput{
		Title:       strPtr("Geography basics"),
		Description: strPtr("Capitals and rivers"),
		Questions:   questionInputs,
	})
	require.NoError(t, err)
	return quiz
}

func TestCreateQuizDefaults(t *testing.T) {
	service, _ := newTestService()

	quiz, created, err := service.CreateQuiz(testTenant, QuizInput{
		Title:       strPtr("Geography basics"),
		Description: strPtr("Capitals and rivers"),
		Categories:  []string{"geo", "school", "geo"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuizDrafted, quiz.Status)
	assert.Equal(t, models.DifficultyEasy, quiz.Difficulty)
	assert.Equal(t, 0, quiz.PassingScore)
	assert.Nil(t, quiz.TimeLimit)
	assert.Nil(t, quiz.AttemptLimit)
	assert.Equal(t, []string{"geo", "school"}, quiz.Categories)
	assert.Empty(t, quiz.Questions)
	assert.Empty(t, created)
}

func TestCreateQuizWithQuestions(t *testing.T) {
	service, _ := newTestService()

	quiz, created, err := service.CreateQuiz(testTenant, QuizInput{
		Title:       strPtr("Geography basics"),
		Description: strPtr("Capitals and rivers"),
		Questions: []questions.QuestionInput{
			shortAnswerInput("Name the capital of France"),
			shortAnswerInput("Name the capital of France again"),
		},
	})
	require.NoError(t, err)

	require.Len(t, created, 2)
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, created[0].ID, quiz.Questions[0])
	assert.Equal(t, created[1].ID, quiz.Questions[1])
	assert.Equal(t, quiz.ID, created[0].QuizID)
}

func TestCreateQuizRollsBackOnBadQuestion(t *testing.T) {
	service, registry := newTestService()

	bad := questions.QuestionInput{
		Type:   typePtr(models.TrueFalse),
		Text:   strPtr("Is it so"),
		Answer: "not a boolean",
		Points: intPtr(1),
	}
	_, _, err := service.CreateQuiz(testTenant, QuizInput{
		Title:       strPtr("Geography basics"),
		Description: strPtr("Capitals and rivers"),
		Questions:   []questions.QuestionInput{shortAnswerInput("Name the capital of France"), bad},
	})
	assert.EqualError(t, err, "Invalid 'answer', it must be a boolean for True/False questions.")

	stores, err := registry.GetStores(testTenant)
	require.NoError(t, err)
	quizCount, err := stores.Quizzes.Count(bson.M{})
	require.NoError(t, err)
	assert.Equal(t, 0, quizCount)
	questionCount, err := stores.Questions.Count(bson.M{})
	require.NoError(t, err)
	assert.Equal(t, 0, questionCount)
}

func TestCreateQuizValidation(t *testing.T) {
	service, _ := newTestService()

	tests := []struct {
		name    string
		input   QuizInput
		wantErr string
	}{
		{
			name:    "missing title",
			input:   QuizInput{Description: strPtr("desc")},
			wantErr: "Invalid 'title', it must be a string between 1 and 200 characters.",
		},
		{
			name:    "missing description",
			input:   QuizInput{Title: strPtr("Geography basics")},
			wantErr: "Invalid 'description', it must be a string between 1 and 500 characters.",
		},
		{
			name: "bad difficulty",
			input: QuizInput{
				Title: strPtr("Geography basics"), Description: strPtr("desc"),
				Difficulty: (*models.Difficulty)(strPtr("insane")),
			},
			wantErr: "Invalid 'difficulty', it must be one of easy, medium or hard.",
		},
		{
			name: "time limit below minimum",
			input: QuizInput{
				Title: strPtr("Geography basics"), Description: strPtr("desc"),
				TimeLimit: intPtr(30),
			},
			wantErr: "Invalid 'timeLimit', it must be an integer of at least 60 seconds or null.",
		},
		{
			name: "attempt limit below one",
			input: QuizInput{
				Title: strPtr("Geography basics"), Description: strPtr("desc"),
				AttemptLimit: intPtr(0),
			},
			wantErr: "Invalid 'attemptLimit', it must be an integer of at least 1 or null.",
		},
		{
			name: "passing score above range",
			input: QuizInput{
				Title: strPtr("Geography basics"), Description: strPtr("desc"),
				PassingScore: intPtr(101),
			},
			wantErr: "Invalid 'passingScore', it must be an integer between 0 and 100.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.CreateQuiz(testTenant, tt.input)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUpdateQuizMergesFields(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)

	updated, err := service.UpdateQuiz(testTenant, quiz.ID, QuizInput{
		Title:     strPtr("Geography advanced"),
		TimeLimit: intPtr(300),
	})
	require.NoError(t, err)

	assert.Equal(t, "Geography advanced", updated.Title)
	assert.Equal(t, "Capitals and rivers", updated.Description)
	require.NotNil(t, updated.TimeLimit)
	assert.Equal(t, 300, *updated.TimeLimit)
}

func TestUpdateQuizRequiresDrafted(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)

	_, err := service.PublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)

	_, err = service.UpdateQuiz(testTenant, quiz.ID, QuizInput{Title: strPtr("New title")})
	assert.EqualError(t, err, "This quiz is not drafted and cannot be updated.")
}

func TestLifecyclePersistsStatus(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)

	published, err := service.PublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuizPublished, published.Status)

	reloaded, _, err := service.RetrieveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuizPublished, reloaded.Status)

	_, err = service.UnpublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	_, err = service.ArchiveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	unarchived, err := service.UnarchiveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuizDrafted, unarchived.Status)
}

func TestSoftDeleteAndRestore(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service, shortAnswerInput("Name the capital of France"))

	deleted, err := service.SoftDeleteQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuizDeleted, deleted.Status)

	// The document and its questions survive a soft delete.
	restored, err := service.RestoreQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuizDrafted, restored.Status)

	_, loaded, err := service.RetrieveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestHardDeleteQuiz(t *testing.T) {
	service, registry := newTestService()
	quiz := createDraftedQuiz(t, service, shortAnswerInput("Name the capital of France"))

	require.NoError(t, service.HardDeleteQuiz(testTenant, quiz.ID))

	_, _, err := service.RetrieveQuiz(testTenant, quiz.ID)
	assert.EqualError(t, err, "There is no quiz with this ID.")

	stores, err := registry.GetStores(testTenant)
	require.NoError(t, err)
	questionCount, err := stores.Questions.Count(bson.M{})
	require.NoError(t, err)
	assert.Equal(t, 0, questionCount)
}

func TestHardDeleteQuizRequiresDrafted(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)

	_, err := service.PublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)

	err = service.HardDeleteQuiz(testTenant, quiz.ID)
	assert.EqualError(t, err, "Only drafted quizzes can be permanently deleted.")
}

func TestRetrieveQuizzesPagination(t *testing.T) {
	service, _ := newTestService()

	for i := 0; i < 5; i++ {
		quiz, _, err := service.CreateQuiz(testTenant, QuizInput{
			Title:       strPtr(fmt.Sprintf("Quiz %d", i)),
			Description: strPtr("desc"),
		})
		require.NoError(t, err)
		_, err = service.PublishQuiz(testTenant, quiz.ID)
		require.NoError(t, err)
	}

	items, pagination, err := service.RetrieveQuizzes(testTenant, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 3, pagination.TotalPages)

	items, _, err = service.RetrieveQuizzes(testTenant, "", 3, 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// No drafted quizzes remain, so the drafted listing is empty.
	items, pagination, err = service.RetrieveQuizzes(testTenant, models.QuizDrafted, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, pagination.TotalPages)
}

func TestRetrieveQuizzesValidation(t *testing.T) {
	service, _ := newTestService()

	_, _, err := service.RetrieveQuizzes(testTenant, "unknown", 1, 10)
	assert.EqualError(t, err, "Invalid 'status'.")

	_, _, err = service.RetrieveQuizzes(testTenant, "", 0, 10)
	assert.EqualError(t, err, "Invalid 'page', it must be a positive integer.")

	_, _, err = service.RetrieveQuizzes(testTenant, "", 1, 0)
	assert.EqualError(t, err, "Invalid 'limit', it must be a positive integer.")
}

func TestQuestionListMutations(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)

	question, err := service.AddQuestion(testTenant, quiz.ID, shortAnswerInput("Name the capital of France"))
	require.NoError(t, err)

	reloaded, loaded, err := service.RetrieveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{question.ID}, reloaded.Questions)
	require.Len(t, loaded, 1)

	updated, err := service.UpdateQuestion(testTenant, quiz.ID, question.ID, questions.QuestionInput{
		Points: intPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.Points)

	require.NoError(t, service.RemoveQuestion(testTenant, quiz.ID, question.ID))
	reloaded, loaded, err = service.RetrieveQuiz(testTenant, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Questions)
	assert.Empty(t, loaded)
}

func TestQuestionListMutationsRequireDrafted(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service, shortAnswerInput("Name the capital of France"))
	questionID := quiz.Questions[0]

	_, err := service.PublishQuiz(testTenant, quiz.ID)
	require.NoError(t, err)

	_, err = service.AddQuestion(testTenant, quiz.ID, shortAnswerInput("Another question"))
	assert.EqualError(t, err, "This quiz is not drafted and cannot be updated.")

	_, err = service.UpdateQuestion(testTenant, quiz.ID, questionID, questions.QuestionInput{Points: intPtr(1)})
	assert.EqualError(t, err, "This quiz is not drafted and cannot be updated.")

	err = service.RemoveQuestion(testTenant, quiz.ID, questionID)
	assert.EqualError(t, err, "This quiz is not drafted and cannot be updated.")
}

func TestUpdateQuestionNotInQuiz(t *testing.T) {
	service, _ := newTestService()
	quiz := createDraftedQuiz(t, service)
	other := createDraftedQuiz(t, service, shortAnswerInput("Name the capital of France"))

	_, err := service.UpdateQuestion(testTenant, quiz.ID, other.Questions[0], questions.QuestionInput{
		Points: intPtr(1),
	})
	assert.EqualError(t, err, "There is no question with this ID for this quiz.")
}
