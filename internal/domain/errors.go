package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. The API layer maps each class to a
// single HTTP status; typed errors below unwrap to one of these.
var (
	// ErrValidation is returned when input is malformed or missing.
	// API layer maps this to HTTP 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated is returned when a credential is missing or invalid.
	// API layer maps this to HTTP 401 Unauthorized.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when an authenticated caller is not entitled
	// to the operation (for example a host pending approval).
	// API layer maps this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced record does not exist.
	// API layer maps this to HTTP 404 Not Found.
	ErrNotFound = errors.New("not found")

	// ErrDependency is returned when the identity provider or the storage
	// service fails. API layer maps this to HTTP 500, or 400 when the
	// dependency blamed the caller.
	ErrDependency = errors.New("dependency failure")

	// ErrPendingApproval is the reason an authenticated caller is denied by
	// the approval gate.
	ErrPendingApproval = fmt.Errorf("%w: account pending approval", ErrForbidden)

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = fmt.Errorf("%w: invalid role", ErrValidation)

	// ErrInvalidID is returned when an ID is missing or malformed.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// ValidationError describes a single invalid or missing input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error, defaulting to ErrValidation.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrValidation
	}
	return e.Err
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// DependencyError records a failed call to an external service.
type DependencyError struct {
	// Service is the external collaborator, e.g. "identity" or "storage".
	Service string
	// Operation is what was attempted, e.g. "create_user".
	Operation string
	// Message is the upstream message, safe to show to the caller only when
	// ClientFault is true.
	Message string
	// ClientFault is set when the dependency rejected the request because of
	// the caller's input (duplicate email, weak password).
	ClientFault bool
	// StatusCode is the upstream status code when the dependency speaks HTTP.
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("%s %s failed", e.Service, e.Operation)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the dependency sentinel and the cause.
func (e *DependencyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDependency}
	}
	return []error{ErrDependency, e.Err}
}

// IsClientFault reports whether err is a DependencyError blamed on the caller.
func IsClientFault(err error) bool {
	var depErr *DependencyError
	return errors.As(err, &depErr) && depErr.ClientFault
}
