// Package apperrors defines the sentinel errors shared across services and
// handlers. Services wrap these with context via fmt.Errorf("...: %w", ...);
// handlers translate them into HTTP statuses with Status.
package apperrors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is authenticated but not a
	// party to the entity or not allowed to perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when a status value is outside its enum or
	// a transition is not permitted from the current state.
	ErrInvalidState = errors.New("invalid state")

	// ErrIdentityMissing is returned when no acting booker/artist identity
	// could be resolved for the authenticated principal.
	ErrIdentityMissing = errors.New("identity missing")

	// ErrConflict is returned when an operation cannot proceed because of
	// existing state, e.g. deleting an owner's only payment method.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned for missing or malformed required fields.
	ErrValidation = errors.New("validation failed")
)

// Status maps an error to the HTTP status it should be reported with.
// Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrIdentityMissing):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
