package router

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"quizservice/src/core/database"
	"quizservice/src/core/middleware"
	"quizservice/src/core/store"
	"quizservice/src/modules/attempts"
	"quizservice/src/modules/clients"
	"quizservice/src/modules/oauth"
	"quizservice/src/modules/questions"
	"quizservice/src/modules/quizzes"
)

// InitialiseAndSetupRoutes wires the services onto the store layer and mounts
// every route. Tenant stores are provisioned lazily by the registry on first
// use; only the shared client collection is bound up front.
func InitialiseAndSetupRoutes(app *fiber.App) {
	registry := store.NewRegistry(store.NewMongoProvider(database.DB))
	clientSvc := clients.NewService(store.NewMongoStore(database.DB.C("clients")))

	questionSvc := questions.NewService(registry)
	quizSvc := quizzes.NewService(registry, questionSvc)
	attemptSvc := attempts.NewService(registry, quizSvc)

	setupRoutes(app, clientSvc, questionSvc, quizSvc, attemptSvc)
}

func setupRoutes(app *fiber.App, clientSvc *clients.Service,
	questionSvc *questions.Service, quizSvc *quizzes.Service, attemptSvc *attempts.Service) {
	oauthHandler := oauth.NewHandler(clientSvc)
	quizHandler := quizzes.NewHandler(quizSvc)
	questionHandler := questions.NewHandler(questionSvc)
	attemptHandler := attempts.NewHandler(attemptSvc)

	root := app.Group("/", fiberlogger.New())

	root.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	root.Post("/oauth/token", oauthHandler.Token)

	apiV1 := root.Group("/api/v1", middleware.Protected(clientSvc))

	quizGroup := apiV1.Group("/quizzes")
	quizGroup.Post("/", quizHandler.CreateQuiz)
	quizGroup.Get("/", quizHandler.RetrieveQuizzes)

	// Attempt routes sit under /quizzes/users so they never collide with the
	// /:quizId wildcard below.
	quizGroup.Post("/users/:userId/attempts/:attemptId/submit", attemptHandler.SubmitQuiz)
	quizGroup.Get("/users/:userId/attempts/:attemptId/analysis", attemptHandler.RetrieveAttemptAnalysis)

	quizGroup.Get("/:quizId", quizHandler.RetrieveQuiz)
	quizGroup.Patch("/:quizId", quizHandler.UpdateQuiz)
	quizGroup.Delete("/:quizId", quizHandler.DeleteQuiz)

	quizGroup.Post("/:quizId/publish", quizHandler.PublishQuiz)
	quizGroup.Post("/:quizId/unpublish", quizHandler.UnpublishQuiz)
	quizGroup.Post("/:quizId/archive", quizHandler.ArchiveQuiz)
	quizGroup.Post("/:quizId/unarchive", quizHandler.UnarchiveQuiz)
	quizGroup.Post("/:quizId/restore", quizHandler.RestoreQuiz)

	quizGroup.Post("/:quizId/questions", quizHandler.AddQuestion)
	quizGroup.Patch("/:quizId/questions/:questionId", quizHandler.UpdateQuestion)
	quizGroup.Delete("/:quizId/questions/:questionId", quizHandler.RemoveQuestion)

	quizGroup.Post("/:quizId/users/:userId/start", attemptHandler.StartQuiz)

	questionGroup := apiV1.Group("/questions")
	questionGroup.Post("/", questionHandler.CreateQuestion)
	questionGroup.Get("/:questionId", questionHandler.RetrieveQuestion)
	questionGroup.Patch("/:questionId", questionHandler.UpdateQuestion)
	questionGroup.Delete("/:questionId", questionHandler.DeleteQuestion)
}
