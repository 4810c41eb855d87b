package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DavidHJones36/roguetwo-api/internal/domain"
	"github.com/DavidHJones36/roguetwo-api/internal/platform/logger"
	"github.com/DavidHJones36/roguetwo-api/internal/store"
)

// PostgresPrivateProfileStore implements the store.PrivateProfileStore
// interface on the profiles_private table.
type PostgresPrivateProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPrivateProfileStore creates a new PostgreSQL implementation of the PrivateProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPrivateProfileStore(db store.DBTX, logger *slog.Logger) *PostgresPrivateProfileStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPrivateProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "private_profile_store")),
	}
}

// Ensure PostgresPrivateProfileStore implements store.PrivateProfileStore interface
var _ store.PrivateProfileStore = (*PostgresPrivateProfileStore)(nil)

// Create implements store.PrivateProfileStore.Create
func (s *PostgresPrivateProfileStore) Create(ctx context.Context, profile *domain.PrivateProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO profiles_private (id, "isHost", "isSitter", approved, phone, subscription_level_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var levelID uuid.NullUUID
	if profile.SubscriptionLevelID != nil {
		levelID = uuid.NullUUID{UUID: *profile.SubscriptionLevelID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.IsHost,
		profile.IsSitter,
		profile.Approved,
		profile.Phone,
		levelID,
		profile.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrProfileExists
		}
		log.Error("failed to create private profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return store.NewStoreError("private_profile", "create", "insert failed", MapError(err))
	}

	log.Debug("private profile created",
		slog.String("profile_id", profile.ID.String()),
		slog.Bool("approved", profile.Approved))
	return nil
}

// GetByID implements store.PrivateProfileStore.GetByID
func (s *PostgresPrivateProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PrivateProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, "isHost", "isSitter", approved, phone, subscription_level_id, created_at
		FROM profiles_private
		WHERE id = $1
	`
	var (
		p       domain.PrivateProfile
		phone   sql.NullString
		levelID uuid.NullUUID
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.IsHost,
		&p.IsSitter,
		&p.Approved,
		&phone,
		&levelID,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPrivateProfileNotFound
		}
		log.Error("failed to get private profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return nil, store.NewStoreError("private_profile", "get", "select failed", MapError(err))
	}

	if phone.Valid {
		p.Phone = &phone.String
	}
	if levelID.Valid {
		p.SubscriptionLevelID = &levelID.UUID
	}
	return &p, nil
}

// GetApproval implements store.PrivateProfileStore.GetApproval
func (s *PostgresPrivateProfileStore) GetApproval(ctx context.Context, id uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var approved bool
	err := s.db.QueryRowContext(ctx,
		`SELECT approved FROM profiles_private WHERE id = $1`, id).Scan(&approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, store.ErrPrivateProfileNotFound
		}
		log.Error("failed to read approval",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return false, store.NewStoreError("private_profile", "get_approval", "select failed", MapError(err))
	}

	return approved, nil
}

// GetSubscription implements store.PrivateProfileStore.GetSubscription
func (s *PostgresPrivateProfileStore) GetSubscription(
	ctx context.Context,
	id uuid.UUID,
) (*domain.SubscriptionLevel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT sl.id, sl.name, sl.events_per_month
		FROM profiles_private pp
		LEFT JOIN subscription_levels sl ON sl.id = pp.subscription_level_id
		WHERE pp.id = $1
	`
	var (
		levelID uuid.NullUUID
		name    sql.NullString
		events  sql.NullInt32
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&levelID, &name, &events)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPrivateProfileNotFound
		}
		log.Error("failed to get subscription",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return nil, store.NewStoreError("private_profile", "get_subscription", "select failed", MapError(err))
	}

	if !levelID.Valid {
		return nil, nil
	}
	return &domain.SubscriptionLevel{
		ID:             levelID.UUID,
		Name:           name.String,
		EventsPerMonth: int(events.Int32),
	}, nil
}

// Delete implements store.PrivateProfileStore.Delete
func (s *PostgresPrivateProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles_private WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete private profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return store.NewStoreError("private_profile", "delete", "delete failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrPrivateProfileNotFound)
}
