package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Role is the account type chosen at signup.
type Role string

const (
	// RoleHost owns events and needs manual approval before using the system.
	RoleHost Role = "host"
	// RoleSitter claims events and is approved on signup.
	RoleSitter Role = "sitter"
)

// ParseRole converts a raw role string into a Role.
// Returns ErrInvalidRole for anything other than "host" or "sitter".
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleHost:
		return RoleHost, nil
	case RoleSitter:
		return RoleSitter, nil
	default:
		return "", ErrInvalidRole
	}
}

// Identity is the login-capable account owned by the external identity
// provider. The gateway only ever creates it (during signup) or deletes it
// (as compensation); it never stores the credential.
type Identity struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
}
