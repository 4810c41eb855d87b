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

// PostgresProfileStore implements the store.ProfileStore interface
// on the profiles table.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// Create implements store.ProfileStore.Create
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.PublicProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (id, first_name, last_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.AvatarURL,
		profile.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("profile already exists", slog.String("profile_id", profile.ID.String()))
			return store.ErrProfileExists
		}
		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return store.NewStoreError("profile", "create", "insert failed", MapError(err))
	}

	log.Debug("profile created", slog.String("profile_id", profile.ID.String()))
	return nil
}

// Upsert implements store.ProfileStore.Upsert
func (s *PostgresProfileStore) Upsert(ctx context.Context, profile *domain.PublicProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (id, first_name, last_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			avatar_url = EXCLUDED.avatar_url
	`
	_, err := s.db.ExecContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.AvatarURL,
		profile.CreatedAt,
	)
	if err != nil {
		log.Error("failed to upsert profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return store.NewStoreError("profile", "upsert", "upsert failed", MapError(err))
	}

	return nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *PostgresProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.PublicProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, first_name, last_name, avatar_url, created_at
		FROM profiles
		WHERE id = $1
	`
	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return nil, store.NewStoreError("profile", "get", "select failed", MapError(err))
	}

	return profile, nil
}

// ListByIDs implements store.ProfileStore.ListByIDs
func (s *PostgresProfileStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.PublicProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.PublicProfile{}, nil
	}

	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}

	query := `
		SELECT id, first_name, last_name, avatar_url, created_at
		FROM profiles
		WHERE id = ANY($1::uuid[])
	`
	rows, err := s.db.QueryContext(ctx, query, raw)
	if err != nil {
		log.Error("failed to list profiles",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, store.NewStoreError("profile", "list", "select failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	profiles := make([]*domain.PublicProfile, 0, len(ids))
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, store.NewStoreError("profile", "list", "scan failed", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "list", "iteration failed", err)
	}

	return profiles, nil
}

// Delete implements store.ProfileStore.Delete
func (s *PostgresProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return store.NewStoreError("profile", "delete", "delete failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrProfileNotFound); err != nil {
		return err
	}

	log.Debug("profile deleted", slog.String("profile_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.PublicProfile, error) {
	var (
		p         domain.PublicProfile
		firstName sql.NullString
		lastName  sql.NullString
		avatarURL sql.NullString
	)
	if err := row.Scan(&p.ID, &firstName, &lastName, &avatarURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.FirstName = firstName.String
	p.LastName = lastName.String
	if avatarURL.Valid {
		p.AvatarURL = &avatarURL.String
	}
	return &p, nil
}
