package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

// Ensure PostgresAuthRepo implements the AuthRepo interface
var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo defines the interface for credential and profile persistence.
type AuthRepo interface {
	CreateUserWithProfile(ctx context.Context, username, passwordHash string, profile types.UpdateProfileParams) (*types.UserAuth, error)
	GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error)
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     api.DBPool
}

func NewPostgresAuthRepo(db api.DBPool, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

// CreateUserWithProfile inserts the profile row and the credential row in a
// single transaction, so a failed credential insert never leaves an orphaned
// profile behind.
func (r *PostgresAuthRepo) CreateUserWithProfile(ctx context.Context, username, passwordHash string, profile types.UpdateProfileParams) (*types.UserAuth, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var profileID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (full_name, bio, avatar_url) VALUES ($1, $2, $3) RETURNING id`,
		profile.FullName, profile.Bio, profile.AvatarURL,
	).Scan(&profileID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create profile", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	var user types.UserAuth
	err = tx.QueryRow(ctx,
		`INSERT INTO users (username, password_hash, profile_id) VALUES ($1, $2, $3)
         RETURNING id, username, password_hash, profile_id, created_at, updated_at`,
		username, passwordHash, profileID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: username already taken", api.ErrConflict)
		}
		r.logger.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit registration", slog.Any("error", err))
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a credential record for login.
func (r *PostgresAuthRepo) GetUserByUsername(ctx context.Context, username string) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, profile_id, created_at, updated_at
         FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %q", api.ErrNotFound, username)
		}
		r.logger.ErrorContext(ctx, "Failed to get user by username", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *PostgresAuthRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*types.UserAuth, error) {
	var user types.UserAuth
	err := r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, profile_id, created_at, updated_at
         FROM users WHERE id = $1`,
		userID,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.ProfileID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %s", api.ErrNotFound, userID)
		}
		r.logger.ErrorContext(ctx, "Failed to get user by id", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
