package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

// ProfileStore persists public profiles.
type ProfileStore interface {
	// Create inserts a new profile.
	// Returns ErrProfileExists if a profile already exists for the ID.
	Create(ctx context.Context, profile *domain.PublicProfile) error

	// Upsert inserts the profile or replaces its name and avatar fields.
	Upsert(ctx context.Context, profile *domain.PublicProfile) error

	// GetByID retrieves a profile by identity ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)

	// ListByIDs returns the profiles that exist among ids, in no particular order.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.PublicProfile, error)

	// Delete removes a profile.
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// PrivateProfileStore persists private profiles.
type PrivateProfileStore interface {
	// Create inserts a new private profile.
	// Returns ErrProfileExists if one already exists for the ID.
	Create(ctx context.Context, profile *domain.PrivateProfile) error

	// GetByID retrieves a private profile by identity ID.
	// Returns ErrPrivateProfileNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error)

	// GetApproval reads only the approved flag.
	// Returns ErrPrivateProfileNotFound if the private profile does not exist.
	GetApproval(ctx context.Context, id uuid.UUID) (bool, error)

	// GetSubscription returns the subscription level referenced by the
	// private profile, or nil when the profile has none.
	// Returns ErrPrivateProfileNotFound if the private profile does not exist.
	GetSubscription(ctx context.Context, id uuid.UUID) (*domain.SubscriptionLevel, error)

	// Delete removes a private profile.
	// Returns ErrPrivateProfileNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
