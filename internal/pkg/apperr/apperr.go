// Package apperr defines the error taxonomy shared by all services.
// Handlers translate these sentinels into HTTP responses in one place
// instead of matching on error strings.
package apperr

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lexpress/core/internal/pkg/response"
)

var (
	// ErrUnauthorized means the acting user's role is not in the allowed
	// set for the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the referenced entity (or a matching ad) is absent.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyDecided means the entity already left PENDING; terminal
	// moderation states accept no further decisions.
	ErrAlreadyDecided = errors.New("already decided")
	// ErrValidation wraps malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)

// Validation returns a validation error with a detail message.
func Validation(msg string) error {
	return &detailed{sentinel: ErrValidation, msg: msg}
}

// Conflict returns a conflict error with a detail message.
func Conflict(msg string) error {
	return &detailed{sentinel: ErrConflict, msg: msg}
}

type detailed struct {
	sentinel error
	msg      string
}

func (e *detailed) Error() string { return e.msg }
func (e *detailed) Unwrap() error { return e.sentinel }

// Write maps a service error onto the HTTP response envelope. Store errors
// fall through as 500; none of them are retried.
func Write(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Forbidden(c)
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrAlreadyDecided):
		response.Conflict(c, "decision already recorded")
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrConflict):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
