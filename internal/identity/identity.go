package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

// ErrInvalidToken is returned when a bearer token cannot be resolved to an
// identity, whether the provider rejected it or could not be reached.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)

// Verifier resolves a bearer token to the identity it was issued for.
type Verifier interface {
	// Verify returns the identity for token, or an error wrapping
	// ErrInvalidToken. It has no side effects and does not retry.
	Verify(ctx context.Context, token string) (*domain.Identity, error)
}

// Admin creates and deletes identities with elevated provider credentials.
type Admin interface {
	// CreateUser creates a confirmed identity.
	// Failures are *domain.DependencyError; duplicate emails and rejected
	// passwords are reported with ClientFault set.
	CreateUser(ctx context.Context, email, password string) (*domain.Identity, error)

	// DeleteUser removes an identity.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

func invalidToken(cause error) error {
	if cause == nil {
		return ErrInvalidToken
	}
	return fmt.Errorf("%w: %w", ErrInvalidToken, cause)
}
