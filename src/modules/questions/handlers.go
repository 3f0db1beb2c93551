package questions

import (
	"github.com/gofiber/fiber/v2"

	"quizservice/src/core/helpers"
)

// Handler exposes the standalone question catalog: questions created here are
// not attached to any quiz until a quiz references them.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateQuestion handles POST /api/v1/questions.
func (h *Handler) CreateQuestion(c *fiber.Ctx) error {
	var in QuestionInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	question, err := h.service.CreateQuestion(helpers.TenantID(c), "", in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Question created successfully", fiber.Map{"question": question})
}

// RetrieveQuestion handles GET /api/v1/questions/:questionId.
func (h *Handler) RetrieveQuestion(c *fiber.Ctx) error {
	question, err := h.service.RetrieveQuestion(helpers.TenantID(c), c.Params("questionId"), "")
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Question retrieved successfully", fiber.Map{"question": question})
}

// UpdateQuestion handles PATCH /api/v1/questions/:questionId.
func (h *Handler) UpdateQuestion(c *fiber.Ctx) error {
	var in QuestionInput
	if err := c.BodyParser(&in); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	question, err := h.service.UpdateQuestion(helpers.TenantID(c), c.Params("questionId"), in)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Question updated successfully", fiber.Map{"question": question})
}

// DeleteQuestion handles DELETE /api/v1/questions/:questionId.
func (h *Handler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.service.DeleteQuestion(helpers.TenantID(c), c.Params("questionId")); err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Question deleted successfully", nil)
}
