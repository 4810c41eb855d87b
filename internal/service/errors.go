package service

import (
	"fmt"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
var (
	// ErrNoIDs indicates a batch lookup was requested without any IDs.
	// API layer maps this to HTTP 400 Bad Request.
	ErrNoIDs = fmt.Errorf("%w: ids query parameter required", domain.ErrValidation)

	// ErrTooManyIDs indicates a batch lookup exceeded MaxBatchIDs.
	// API layer maps this to HTTP 400 Bad Request.
	ErrTooManyIDs = fmt.Errorf("%w: too many ids", domain.ErrValidation)
)
