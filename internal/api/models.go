package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
)

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SignupProfileRequest is the body of POST /auth/signup-profile. Token is
// an access token the client obtained from the identity provider.
type SignupProfileRequest struct {
	Token     string `json:"token"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// UpdateProfileRequest is the body of PUT /profiles/me.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	AvatarURL string `json:"avatar_url"`
}

// ProfileResponse is the caller's own public profile.
type ProfileResponse struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// PublicProfileResponse is another user's public profile.
type PublicProfileResponse struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	AvatarURL *string    `json:"avatar_url"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// PrivateProfileResponse is the caller's role and approval state.
type PrivateProfileResponse struct {
	IsHost   bool `json:"isHost"`
	IsSitter bool `json:"isSitter"`
	Approved bool `json:"approved"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func profileToResponse(p *domain.PublicProfile) ProfileResponse {
	return ProfileResponse{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: p.AvatarURL,
	}
}

// publicProfileToResponse maps a profile; created_at is only included in
// batch listings.
func publicProfileToResponse(p *domain.PublicProfile, withCreatedAt bool) PublicProfileResponse {
	resp := PublicProfileResponse{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		AvatarURL: p.AvatarURL,
	}
	if withCreatedAt {
		createdAt := p.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func privateProfileToResponse(p *domain.PrivateProfile) PrivateProfileResponse {
	return PrivateProfileResponse{
		IsHost:   p.IsHost,
		IsSitter: p.IsSitter,
		Approved: p.Approved,
	}
}
