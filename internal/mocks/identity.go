package mocks

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/identity"
)

// MockVerifier implements identity.Verifier for testing
type MockVerifier struct {
	VerifyFn func(ctx context.Context, token string) (*domain.Identity, error)

	// Tokens maps bearer tokens to the identity they resolve to
	Tokens map[string]*domain.Identity

	mu     sync.Mutex
	calls  int
	tokens []string
}

var _ identity.Verifier = (*MockVerifier)(nil)

// NewMockVerifier creates a verifier that accepts only the given tokens.
func NewMockVerifier() *MockVerifier {
	return &MockVerifier{Tokens: make(map[string]*domain.Identity)}
}

// WithToken registers a token for an identity ID and returns the verifier.
func (m *MockVerifier) WithToken(token string, id uuid.UUID) *MockVerifier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tokens[token] = &domain.Identity{ID: id, Confirmed: true}
	return m
}

// Verify implements identity.Verifier
func (m *MockVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	m.mu.Lock()
	m.calls++
	m.tokens = append(m.tokens, token)
	fn := m.VerifyFn
	ident, ok := m.Tokens[token]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, token)
	}
	if !ok {
		return nil, identity.ErrInvalidToken
	}
	copied := *ident
	return &copied, nil
}

// Calls returns how many times Verify was called.
func (m *MockVerifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockIdentityAdmin implements identity.Admin with an in-memory user table.
type MockIdentityAdmin struct {
	CreateUserFn func(ctx context.Context, email, password string) (*domain.Identity, error)
	DeleteUserFn func(ctx context.Context, id uuid.UUID) error

	// Errors injected into the default implementation
	CreateError error
	DeleteError error

	mu      sync.Mutex
	users   map[uuid.UUID]*domain.Identity
	deleted []uuid.UUID
}

var _ identity.Admin = (*MockIdentityAdmin)(nil)

// NewMockIdentityAdmin creates an empty identity provider.
func NewMockIdentityAdmin() *MockIdentityAdmin {
	return &MockIdentityAdmin{users: make(map[uuid.UUID]*domain.Identity)}
}

// CreateUser implements identity.Admin. Emails are unique case-insensitively;
// a duplicate is rejected the way the provider rejects it.
func (m *MockIdentityAdmin) CreateUser(ctx context.Context, email, password string) (*domain.Identity, error) {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, email, password)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return nil, m.CreateError
	}

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return nil, &domain.DependencyError{
				Service:     "identity",
				Operation:   "create_user",
				Message:     "A user with this email address has already been registered",
				ClientFault: true,
				StatusCode:  http.StatusUnprocessableEntity,
			}
		}
	}

	u := &domain.Identity{ID: uuid.New(), Email: email, Confirmed: true}
	m.users[u.ID] = u
	copied := *u
	return &copied, nil
}

// DeleteUser implements identity.Admin
func (m *MockIdentityAdmin) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if m.DeleteUserFn != nil {
		return m.DeleteUserFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.users[id]; !ok {
		return &domain.DependencyError{
			Service:    "identity",
			Operation:  "delete_user",
			StatusCode: http.StatusNotFound,
			Err:        domain.ErrNotFound,
		}
	}
	delete(m.users, id)
	return nil
}

// Seed adds an existing identity, as if the client had signed up with the
// provider directly.
func (m *MockIdentityAdmin) Seed(email string) *domain.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.Identity{ID: uuid.New(), Email: email, Confirmed: true}
	m.users[u.ID] = u
	copied := *u
	return &copied
}

// Count returns the number of identities.
func (m *MockIdentityAdmin) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// Exists reports whether an identity exists.
func (m *MockIdentityAdmin) Exists(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok
}

// Deleted returns the IDs DeleteUser was called with, in call order.
func (m *MockIdentityAdmin) Deleted() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.deleted...)
}
