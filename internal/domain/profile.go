package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultEventsPerMonth is the monthly event allowance used when a private
// profile has no subscription level.
const DefaultEventsPerMonth = 3

// PublicProfile holds display data visible to other users.
// Its ID is the ID of the Identity it extends.
type PublicProfile struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPublicProfile creates a PublicProfile for an identity.
// An empty avatar URL is stored as nil.
func NewPublicProfile(id uuid.UUID, firstName, lastName, avatarURL string) (*PublicProfile, error) {
	p := &PublicProfile{
		ID:        id,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		AvatarURL: optionalString(avatarURL),
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the profile can be stored.
func (p *PublicProfile) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if p.FirstName == "" {
		return NewValidationError("firstName", "is required", nil)
	}
	if p.LastName == "" {
		return NewValidationError("lastName", "is required", nil)
	}
	return nil
}

// PrivateProfile holds role and approval data visible only to its owner.
// Approved is read by the approval gate on every gated request.
type PrivateProfile struct {
	ID                  uuid.UUID  `json:"id"`
	IsHost              bool       `json:"isHost"`
	IsSitter            bool       `json:"isSitter"`
	Approved            bool       `json:"approved"`
	Phone               *string    `json:"phone,omitempty"`
	SubscriptionLevelID *uuid.UUID `json:"subscription_level_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// NewPrivateProfile derives the role flags for a new account.
// Sitters self-serve and start approved; hosts start pending.
func NewPrivateProfile(id uuid.UUID, role Role, phone string) (*PrivateProfile, error) {
	if id == uuid.Nil {
		return nil, NewValidationError("id", "is required", ErrInvalidID)
	}
	if role != RoleHost && role != RoleSitter {
		return nil, ErrInvalidRole
	}
	return &PrivateProfile{
		ID:        id,
		IsHost:    role == RoleHost,
		IsSitter:  role == RoleSitter,
		Approved:  role == RoleSitter,
		Phone:     optionalString(phone),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SubscriptionLevel is a plan that caps how many events a host may create.
type SubscriptionLevel struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	EventsPerMonth int       `json:"events_per_month"`
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
