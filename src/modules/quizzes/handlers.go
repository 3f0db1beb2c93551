package quizzes

import (
	"github.com/gofiber/fiber/v2"

	"quizservice/src/core/helpers"
	"quizservice/src/core/models"
	"quizservice/src/modules/questions"
)

const defaultPageLimit = 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateQuiz handles POST /api/v1/quizzes.
func (h *Handler) CreateQuiz(c *fiber.Ctx) error {
	var in QuizInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	quiz, quizQuestions, err := h.service.CreateQuiz(helpers.TenantID(c), in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Quiz created successfully", fiber.Map{
		"quiz":      quiz,
		"questions": quizQuestions,
	})
}

// RetrieveQuizzes handles GET /api/v1/quizzes with status/page/limit query
// parameters.
func (h *Handler) RetrieveQuizzes(c *fiber.Ctx) error {
	status := models.QuizStatus(c.Query("status", string(models.QuizPublished)))
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", defaultPageLimit)

	items, pagination, err := h.service.RetrieveQuizzes(helpers.TenantID(c), status, page, limit)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Quizzes retrieved successfully", fiber.Map{
		"quizzes":    items,
		"pagination": pagination,
	})
}

// RetrieveQuiz handles GET /api/v1/quizzes/:quizId.
func (h *Handler) RetrieveQuiz(c *fiber.Ctx) error {
	quiz, quizQuestions, err := h.service.RetrieveQuiz(helpers.TenantID(c), c.Params("quizId"))
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Quiz retrieved successfully", fiber.Map{
		"quiz":      quiz,
		"questions": quizQuestions,
	})
}

// UpdateQuiz handles PATCH /api/v1/quizzes/:quizId.
func (h *Handler) UpdateQuiz(c *fiber.Ctx) error {
	var in QuizInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	quiz, err := h.service.UpdateQuiz(helpers.TenantID(c), c.Params("quizId"), in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Quiz updated successfully", fiber.Map{"quiz": quiz})
}

// DeleteQuiz handles DELETE /api/v1/quizzes/:quizId. The default is a soft
// delete; ?hard=true permanently removes a drafted quiz and its questions.
func (h *Handler) DeleteQuiz(c *fiber.Ctx) error {
	tenantID := helpers.TenantID(c)
	quizID := c.Params("quizId")

	if c.QueryBool("hard", false) {
		if err := h.service.HardDeleteQuiz(tenantID, quizID); err != nil {
			return helpers.HandleDomainError(c, err)
		}
		return helpers.HandleSuccess(c, fiber.StatusOK, "Quiz permanently deleted", nil)
	}

	quiz, err := h.service.SoftDeleteQuiz(tenantID, quizID)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Quiz deleted successfully", fiber.Map{"quiz": quiz})
}

func (h *Handler) transition(c *fiber.Ctx, message string,
	apply func(tenantID, quizID string) (*models.Quiz, error)) error {
	quiz, err := apply(helpers.TenantID(c), c.Params("quizId"))
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, message, fiber.Map{"quiz": quiz})
}

// PublishQuiz handles POST /api/v1/quizzes/:quizId/publish.
func (h *Handler) PublishQuiz(c *fiber.Ctx) error {
	return h.transition(c, "Quiz published successfully", h.service.PublishQuiz)
}

// UnpublishQuiz handles POST /api/v1/quizzes/:quizId/unpublish.
func (h *Handler) UnpublishQuiz(c *fiber.Ctx) error {
	return h.transition(c, "Quiz unpublished successfully", h.service.UnpublishQuiz)
}

// ArchiveQuiz handles POST /api/v1/quizzes/:quizId/archive.
func (h *Handler) ArchiveQuiz(c *fiber.Ctx) error {
	return h.transition(c, "Quiz archived successfully", h.service.ArchiveQuiz)
}

// UnarchiveQuiz handles POST /api/v1/quizzes/:quizId/unarchive.
func (h *Handler) UnarchiveQuiz(c *fiber.Ctx) error {
	return h.transition(c, "Quiz unarchived successfully", h.service.UnarchiveQuiz)
}

// RestoreQuiz handles POST /api/v1/quizzes/:quizId/restore.
func (h *Handler) RestoreQuiz(c *fiber.Ctx) error {
	return h.transition(c, "Quiz restored successfully", h.service.RestoreQuiz)
}

// AddQuestion handles POST /api/v1/quizzes/:quizId/questions.
func (h *Handler) AddQuestion(c *fiber.Ctx) error {
	var in questions.QuestionInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	question, err := h.service.AddQuestion(helpers.TenantID(c), c.Params("quizId"), in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Question added successfully", fiber.Map{"question": question})
}

// UpdateQuestion handles PATCH /api/v1/quizzes/:quizId/questions/:questionId.
func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	var in questions.QuestionInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	question, err := h.service.UpdateQuestion(helpers.TenantID(c), c.Params("quizId"), c.Params("questionId"), in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Question updated successfully", fiber.Map{"question": question})
}

// RemoveQuestion handles DELETE /api/v1/quizzes/:quizId/questions/:questionId.
func (h *Handler) RemoveQuestion(c *fiber.Ctx) error {
	err := h.service.RemoveQuestion(helpers.TenantID(c), c.Params("quizId"), c.Params("questionId"))
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Question removed successfully", nil)
}
