package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

// Ensure PostgresRepository implements the Repository interface
var _ Repository = (*PostgresRepository)(nil)

// Repository defines profile persistence, keyed by the owning user id.
type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.Profile, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	db     api.DBPool
}

func NewPostgresRepository(db api.DBPool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var profile types.Profile
	err := r.db.QueryRow(ctx,
		`SELECT p.id, p.full_name, p.bio, p.avatar_url, p.created_at, p.updated_at
         FROM profiles p
         JOIN users u ON u.profile_id = p.id
         WHERE u.id = $1`,
		userID,
	).Scan(&profile.ID, &profile.FullName, &profile.Bio, &profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile for user %s", api.ErrNotFound, userID)
		}
		r.logger.ErrorContext(ctx, "Failed to get profile", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile replaces only the supplied fields; nil params keep the stored values.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.Profile, error) {
	var profile types.Profile
	err := r.db.QueryRow(ctx,
		`UPDATE profiles SET
            full_name = COALESCE($2, full_name),
            bio = COALESCE($3, bio),
            avatar_url = COALESCE($4, avatar_url),
            updated_at = now()
         WHERE id = (SELECT profile_id FROM users WHERE id = $1)
         RETURNING id, full_name, bio, avatar_url, created_at, updated_at`,
		userID, params.FullName, params.Bio, params.AvatarURL,
	).Scan(&profile.ID, &profile.FullName, &profile.Bio, &profile.AvatarURL, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile for user %s", api.ErrNotFound, userID)
		}
		r.logger.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}
