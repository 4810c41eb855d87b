package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DavidHJones36/roguetwo-api/internal/api/shared"
	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/service"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

const defaultErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	// Dependency errors carry their own verdict on who is at fault
	case errors.Is(err, domain.ErrDependency):
		if domain.IsClientFault(err) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return defaultErrorMessage
	}

	var (
		depErr *domain.DependencyError
		valErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &depErr):
		// Only a client fault may echo the provider's message back
		if !domain.IsClientFault(err) {
			return defaultErrorMessage
		}
		if depErr.Message != "" {
			return depErr.Message
		}
		return "Request rejected"

	case errors.Is(err, service.ErrNoIDs):
		return "ids query parameter required"

	case errors.Is(err, service.ErrTooManyIDs):
		return fmt.Sprintf("at most %d ids allowed", service.MaxBatchIDs)

	// Validation messages are written for the caller
	case errors.As(err, &valErr):
		return valErr.Error()

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	case errors.Is(err, domain.ErrUnauthenticated):
		return "Invalid token"

	case errors.Is(err, domain.ErrPendingApproval):
		return "Account pending approval"

	case errors.Is(err, domain.ErrForbidden):
		return "Forbidden"

	case errors.Is(err, store.ErrPrivateProfileNotFound):
		return "Private profile not found"

	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"

	case errors.Is(err, domain.ErrNotFound):
		return "Not found"

	default:
		return defaultErrorMessage
	}
}

// HandleAPIError writes the error response for err and logs the detail.
// For server errors, fallback replaces the generic message when set, so
// each endpoint can say what failed without revealing why.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status >= http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
