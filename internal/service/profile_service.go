package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// MaxBatchIDs caps the number of profiles a batch lookup may request.
const MaxBatchIDs = 100

// Subscription is a caller's plan with the effective monthly event limit.
type Subscription struct {
	LevelID        *uuid.UUID `json:"subscriptionLevelId"`
	Name           string     `json:"name,omitempty"`
	EventsPerMonth int        `json:"eventsPerMonth"`
}

// ProfileService provides profile read and update operations
type ProfileService interface {
	// GetPublicProfile retrieves a public profile by identity ID
	GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error)

	// ListPublicProfiles retrieves the public profiles that exist among ids
	ListPublicProfiles(ctx context.Context, ids []uuid.UUID) ([]*domain.PublicProfile, error)

	// UpdatePublicProfile creates or replaces the caller's public profile
	UpdatePublicProfile(ctx context.Context, id uuid.UUID, firstName, lastName, avatarURL string) error

	// GetPrivateProfile retrieves the caller's own private profile
	GetPrivateProfile(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error)

	// GetSubscription returns the caller's plan, falling back to the default
	// allowance when no plan is assigned
	GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error)
}

// ProfileServiceImpl implements the ProfileService interface
type ProfileServiceImpl struct {
	profiles store.ProfileStore
	private  store.PrivateProfileStore
	logger   *slog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles store.ProfileStore,
	private store.PrivateProfileStore,
	logger *slog.Logger,
) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileServiceImpl{
		profiles: profiles,
		private:  private,
		logger:   logger.With("component", "profile_service"),
	}
}

// GetPublicProfile implements ProfileService
func (s *ProfileServiceImpl) GetPublicProfile(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve profile", "error", err, "profile_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve profile: %w", err)
	}
	return profile, nil
}

// ListPublicProfiles implements ProfileService
func (s *ProfileServiceImpl) ListPublicProfiles(
	ctx context.Context,
	ids []uuid.UUID,
) ([]*domain.PublicProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return nil, ErrNoIDs
	}
	if len(ids) > MaxBatchIDs {
		return nil, fmt.Errorf("%w: %d requested, at most %d allowed", ErrTooManyIDs, len(ids), MaxBatchIDs)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	profiles, err := s.profiles.ListByIDs(ctx, unique)
	if err != nil {
		log.Error("failed to list profiles", "error", err, "id_count", len(unique))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	log.Debug("listed profiles", "requested", len(unique), "found", len(profiles))
	return profiles, nil
}

// UpdatePublicProfile implements ProfileService
func (s *ProfileServiceImpl) UpdatePublicProfile(
	ctx context.Context,
	id uuid.UUID,
	firstName, lastName, avatarURL string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := domain.NewPublicProfile(id, firstName, lastName, avatarURL)
	if err != nil {
		return err
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		log.Error("failed to update profile", "error", err, "profile_id", id)
		return fmt.Errorf("failed to update profile: %w", err)
	}

	log.Debug("profile updated", "profile_id", id)
	return nil
}

// GetPrivateProfile implements ProfileService
func (s *ProfileServiceImpl) GetPrivateProfile(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	profile, err := s.private.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to retrieve private profile", "error", err, "profile_id", id)
		}
		return nil, fmt.Errorf("failed to retrieve private profile: %w", err)
	}
	return profile, nil
}

// GetSubscription implements ProfileService
func (s *ProfileServiceImpl) GetSubscription(ctx context.Context, id uuid.UUID) (*Subscription, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	level, err := s.private.GetSubscription(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to load subscription", "error", err, "profile_id", id)
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}

	if level == nil {
		return &Subscription{EventsPerMonth: domain.DefaultEventsPerMonth}, nil
	}
	levelID := level.ID
	return &Subscription{
		LevelID:        &levelID,
		Name:           level.Name,
		EventsPerMonth: level.EventsPerMonth,
	}, nil
}
