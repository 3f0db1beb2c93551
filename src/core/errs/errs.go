// Package errs defines the typed domain errors raised by the quiz engine.
// The HTTP layer maps them to status codes in helpers.HandleDomainError;
// anything that is not one of these types is treated as an infrastructure
// failure and surfaces as a generic 500.
package errs

// ValidationError signals malformed or out-of-range input. The caller can
// recover by correcting the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// NotExistError signals that a referenced entity is absent.
type NotExistError struct {
	Message string
}

func (e *NotExistError) Error() string { return e.Message }

func NewNotExist(message string) error {
	return &NotExistError{Message: message}
}

// InvalidStatusError signals an operation that is not legal in the entity's
// current lifecycle state.
type InvalidStatusError struct {
	Message string
}

func (e *InvalidStatusError) Error() string { return e.Message }

func NewInvalidStatus(message string) error {
	return &InvalidStatusError{Message: message}
}

// AttemptLimitError signals that the quiz's attempt limit has been reached
// for this user.
type AttemptLimitError struct {
	Message string
}

func (e *AttemptLimitError) Error() string { return e.Message }

func NewAttemptLimit(message string) error {
	return &AttemptLimitError{Message: message}
}

// ActiveAttemptError signals that the user already has an attempt in flight.
type ActiveAttemptError struct {
	Message string
}

func (e *ActiveAttemptError) Error() string { return e.Message }

func NewActiveAttempt(message string) error {
	return &ActiveAttemptError{Message: message}
}

// InvalidOrExpiredTokenError covers every bearer-token failure. It carries no
// detail on purpose so that the response never reveals why authentication
// failed.
type InvalidOrExpiredTokenError struct{}

func (e *InvalidOrExpiredTokenError) Error() string {
	return "The provided token is invalid or has expired."
}

func NewInvalidOrExpiredToken() error {
	return &InvalidOrExpiredTokenError{}
}
