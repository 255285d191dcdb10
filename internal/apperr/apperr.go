package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies operation failures. Every service method returns either
// a success value or an *Error with one of these kinds; the HTTP boundary
// maps kinds to status codes uniformly.
type Kind int

const (
	// Validation: a required field is missing or malformed.
	Validation Kind = iota + 1
	// NotFound: a referenced id does not exist.
	NotFound
	// Conflict: a uniqueness constraint would be violated.
	Conflict
	// Storage: unexpected persistence failure.
	Storage
)

func (k Kind) Status() int {
	switch k {
	case Validation:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case Conflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap marks err as an unexpected storage failure.
func Wrap(err error) *Error {
	return &Error{Kind: Storage, Message: "storage error", Err: err}
}
