package apperror

import (
	"errors"
	"fmt"

	"github.com/anjiri1684/parkspace/logger"
	"github.com/gofiber/fiber/v2"
)

const (
	CodeInternal     = "INTERNAL_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadBody      = "INVALID_REQUEST_BODY"

	CodeAccountDisabled = "ACCOUNT_DISABLED"
)

// Error is a failure that is safe to show to API callers.
type Error struct {
	Status  int
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest(code, message string) *Error {
	return New(fiber.StatusBadRequest, code, message)
}

func NotFound(code, message string) *Error {
	return New(fiber.StatusNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(fiber.StatusConflict, code, message)
}

func Unauthorized(message string) *Error {
	return New(fiber.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(fiber.StatusForbidden, CodeForbidden, message)
}

// Internal hides err from the caller; the cause is kept for logging.
func Internal(err error) *Error {
	return &Error{Status: fiber.StatusInternalServerError, Code: CodeInternal, Message: "internal server error", cause: err}
}

// As extracts an *Error, wrapping anything else as Internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}

// Respond writes err as {error, code}.
func Respond(c *fiber.Ctx, err error) error {
	appErr := As(err)
	if appErr.Status >= fiber.StatusInternalServerError {
		logger.Log.Error().
			Err(err).
			Str("path", c.Path()).
			Str("method", c.Method()).
			Msg("request failed")
	}
	return c.Status(appErr.Status).JSON(fiber.Map{
		"error": appErr.Message,
		"code":  appErr.Code,
	})
}
