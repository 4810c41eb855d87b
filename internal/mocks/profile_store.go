package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// MockProfileStore implements store.ProfileStore for testing
type MockProfileStore struct {
	CreateFn    func(ctx context.Context, profile *domain.PublicProfile) error
	UpsertFn    func(ctx context.Context, profile *domain.PublicProfile) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)
	ListByIDsFn func(ctx context.Context, ids []uuid.UUID) ([]*domain.PublicProfile, error)
	DeleteFn    func(ctx context.Context, id uuid.UUID) error

	// Errors injected into the default implementation
	CreateError error
	DeleteError error

	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.PublicProfile
	deleted  []uuid.UUID
}

var _ store.ProfileStore = (*MockProfileStore)(nil)

// NewMockProfileStore creates an empty store.
func NewMockProfileStore() *MockProfileStore {
	return &MockProfileStore{profiles: make(map[uuid.UUID]*domain.PublicProfile)}
}

// Create implements store.ProfileStore
func (m *MockProfileStore) Create(ctx context.Context, profile *domain.PublicProfile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.profiles[profile.ID]; ok {
		return store.ErrProfileExists
	}
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

// Upsert implements store.ProfileStore
func (m *MockProfileStore) Upsert(ctx context.Context, profile *domain.PublicProfile) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *profile
	if existing, ok := m.profiles[profile.ID]; ok {
		copied.CreatedAt = existing.CreatedAt
	}
	m.profiles[profile.ID] = &copied
	return nil
}

// GetByID implements store.ProfileStore
func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

// ListByIDs implements store.ProfileStore
func (m *MockProfileStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.PublicProfile, error) {
	if m.ListByIDsFn != nil {
		return m.ListByIDsFn(ctx, ids)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.PublicProfile, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.profiles[id]; ok {
			copied := *p
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Delete implements store.ProfileStore
func (m *MockProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if _, ok := m.profiles[id]; !ok {
		return store.ErrProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

// Put stores a profile directly.
func (m *MockProfileStore) Put(profile *domain.PublicProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *profile
	m.profiles[profile.ID] = &copied
}

// Exists reports whether a profile exists.
func (m *MockProfileStore) Exists(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[id]
	return ok
}

// Count returns the number of stored profiles.
func (m *MockProfileStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

// Deleted returns the IDs Delete was called with, in call order.
func (m *MockProfileStore) Deleted() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.deleted...)
}

// MockPrivateProfileStore implements store.PrivateProfileStore for testing
type MockPrivateProfileStore struct {
	CreateFn          func(ctx context.Context, profile *domain.PrivateProfile) error
	GetByIDFn         func(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error)
	GetApprovalFn     func(ctx context.Context, id uuid.UUID) (bool, error)
	GetSubscriptionFn func(ctx context.Context, id uuid.UUID) (*domain.SubscriptionLevel, error)
	DeleteFn          func(ctx context.Context, id uuid.UUID) error

	// Errors injected into the default implementation
	CreateError      error
	GetApprovalError error

	mu            sync.Mutex
	profiles      map[uuid.UUID]*domain.PrivateProfile
	levels        map[uuid.UUID]*domain.SubscriptionLevel
	approvalReads int
}

var _ store.PrivateProfileStore = (*MockPrivateProfileStore)(nil)

// NewMockPrivateProfileStore creates an empty store.
func NewMockPrivateProfileStore() *MockPrivateProfileStore {
	return &MockPrivateProfileStore{
		profiles: make(map[uuid.UUID]*domain.PrivateProfile),
		levels:   make(map[uuid.UUID]*domain.SubscriptionLevel),
	}
}

// Create implements store.PrivateProfileStore
func (m *MockPrivateProfileStore) Create(ctx context.Context, profile *domain.PrivateProfile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, profile)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if _, ok := m.profiles[profile.ID]; ok {
		return store.ErrProfileExists
	}
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

// GetByID implements store.PrivateProfileStore
func (m *MockPrivateProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrPrivateProfileNotFound
	}
	copied := *p
	return &copied, nil
}

// GetApproval implements store.PrivateProfileStore
func (m *MockPrivateProfileStore) GetApproval(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.approvalReads++
	fn := m.GetApprovalFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetApprovalError != nil {
		return false, m.GetApprovalError
	}
	p, ok := m.profiles[id]
	if !ok {
		return false, store.ErrPrivateProfileNotFound
	}
	return p.Approved, nil
}

// GetSubscription implements store.PrivateProfileStore
func (m *MockPrivateProfileStore) GetSubscription(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SubscriptionLevel, error) {
	if m.GetSubscriptionFn != nil {
		return m.GetSubscriptionFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, store.ErrPrivateProfileNotFound
	}
	if p.SubscriptionLevelID == nil {
		return nil, nil
	}
	level, ok := m.levels[*p.SubscriptionLevelID]
	if !ok {
		return nil, nil
	}
	copied := *level
	return &copied, nil
}

// Delete implements store.PrivateProfileStore
func (m *MockPrivateProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return store.ErrPrivateProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

// Put stores a private profile directly.
func (m *MockPrivateProfileStore) Put(profile *domain.PrivateProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *profile
	m.profiles[profile.ID] = &copied
}

// PutLevel stores a subscription level.
func (m *MockPrivateProfileStore) PutLevel(level *domain.SubscriptionLevel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *level
	m.levels[level.ID] = &copied
}

// SetApproved flips the approved flag, as an operator would.
func (m *MockPrivateProfileStore) SetApproved(id uuid.UUID, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.profiles[id]; ok {
		p.Approved = approved
	}
}

// Exists reports whether a private profile exists.
func (m *MockPrivateProfileStore) Exists(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.profiles[id]
	return ok
}

// Count returns the number of stored private profiles.
func (m *MockPrivateProfileStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

// ApprovalReads returns how many times GetApproval was called.
func (m *MockPrivateProfileStore) ApprovalReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approvalReads
}
