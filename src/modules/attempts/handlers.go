package attempts

import (
	"github.com/gofiber/fiber/v2"

	"quizservice/src/core/helpers"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type submitRequest struct {
	Responses []ResponseInput `json:"responses"`
}

// StartQuiz handles POST /api/v1/quizzes/:quizId/users/:userId/start.
func (h *Handler) StartQuiz(c *fiber.Ctx) error {
	result, err := h.service.StartQuiz(helpers.TenantID(c), c.Params("userId"), c.Params("quizId"))
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Attempt started successfully", result)
}

// SubmitQuiz handles POST /api/v1/quizzes/users/:userId/attempts/:attemptId/submit.
func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	result, err := h.service.SubmitQuiz(helpers.TenantID(c), c.Params("userId"), c.Params("attemptId"), req.Responses)
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempt submitted successfully", result)
}

// RetrieveAttemptAnalysis handles GET /api/v1/quizzes/users/:userId/attempts/:attemptId/analysis.
func (h *Handler) RetrieveAttemptAnalysis(c *fiber.Ctx) error {
	analysis, err := h.service.RetrieveAttemptAnalysis(helpers.TenantID(c), c.Params("userId"), c.Params("attemptId"))
	if err != nil {
		return helpers.HandleDomainError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Attempt analysis retrieved successfully", fiber.Map{"analysis": analysis})
}
