package helpers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"quizservice/src/core/errs"
	"quizservice/src/core/logger"
)

// Initialize a validator instance using go-playground's validator package
var Validator = validator.New()

// Validate checks the struct fields against the specified validation tags.
func Validate(val interface{}) error {
	return Validator.Struct(val)
}

// HandleSuccess sends a structured JSON response for successful requests.
func HandleSuccess(context *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"error":   nil,
		"data":    data,
	})
}

// HandleError sends a structured JSON response for errors.
func HandleError(context *fiber.Ctx, statusCode int, message string, err error) error {
	var detail interface{}
	if err != nil {
		detail = err.Error()
	}
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   detail,
		"data":    nil,
	})
}

// TenantID reads the tenant identity the auth middleware attached to the
// request. Routes behind Protected always have it set.
func TenantID(context *fiber.Ctx) string {
	tenantID, _ := context.Locals("tenant_id").(string)
	return tenantID
}

// HandleDomainError maps a typed engine error onto its HTTP status.
// Validation and business-rule violations are 400, auth failures 401, absent
// entities 404; anything unclassified is an infrastructure failure and is
// logged and reported as a bare 500.
func HandleDomainError(context *fiber.Ctx, err error) error {
	var (
		validationErr    *errs.ValidationError
		invalidStatusErr *errs.InvalidStatusError
		attemptLimitErr  *errs.AttemptLimitError
		activeAttemptErr *errs.ActiveAttemptError
		tokenErr         *errs.InvalidOrExpiredTokenError
		notExistErr      *errs.NotExistError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &invalidStatusErr),
		errors.As(err, &attemptLimitErr),
		errors.As(err, &activeAttemptErr):
		return HandleError(context, fiber.StatusBadRequest, err.Error(), nil)
	case errors.As(err, &tokenErr):
		return HandleError(context, fiber.StatusUnauthorized, err.Error(), nil)
	case errors.As(err, &notExistErr):
		return HandleError(context, fiber.StatusNotFound, err.Error(), nil)
	default:
		logger.Log.WithError(err).Error("Unhandled error in request")
		return HandleError(context, fiber.StatusInternalServerError, "An unexpected error occurred on the server.", nil)
	}
}
