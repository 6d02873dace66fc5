package note

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

// Repository defines note persistence. Every read and write is filtered by
// the owning user id; rows belonging to other owners are indistinguishable
// from missing ones.
type Repository interface {
	CreateNote(ctx context.Context, userID uuid.UUID, title, content string) (*types.Note, error)
	GetNote(ctx context.Context, userID, noteID uuid.UUID) (*types.Note, error)
	UpdateNote(ctx context.Context, note *types.Note) error
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error
	GetUserNotes(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Note, int, error)
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

// CreateNote inserts a new note owned by userID.
func (r *PostgresRepository) CreateNote(ctx context.Context, userID uuid.UUID, title, content string) (*types.Note, error) {
	var note types.Note
	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (user_id, title, content) VALUES ($1, $2, $3)
         RETURNING id, user_id, title, content, created_at, updated_at`,
		userID, title, content,
	).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to create note", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	return &note, nil
}

// GetNote retrieves a note by id, scoped to its owner.
func (r *PostgresRepository) GetNote(ctx context.Context, userID, noteID uuid.UUID) (*types.Note, error) {
	var note types.Note
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
         FROM notes WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: note %s", api.ErrNotFound, noteID)
		}
		r.logger.ErrorContext(ctx, "Failed to get note", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

// UpdateNote writes the merged note row back, scoped to its owner.
func (r *PostgresRepository) UpdateNote(ctx context.Context, note *types.Note) error {
	err := r.db.QueryRow(ctx,
		`UPDATE notes SET title = $1, content = $2, updated_at = now()
         WHERE id = $3 AND user_id = $4
         RETURNING updated_at`,
		note.Title, note.Content, note.ID, note.UserID,
	).Scan(&note.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: note %s", api.ErrNotFound, note.ID)
		}
		r.logger.ErrorContext(ctx, "Failed to update note", slog.Any("error", err))
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// DeleteNote removes a note, scoped to its owner.
func (r *PostgresRepository) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM notes WHERE id = $1 AND user_id = $2`,
		noteID, userID,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete note", slog.Any("error", err))
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%w: note %s", api.ErrNotFound, noteID)
	}
	return nil
}

// GetUserNotes returns one page of the user's notes, newest first, along with
// the total count for pagination.
func (r *PostgresRepository) GetUserNotes(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Note, int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count notes", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, title, content, created_at, updated_at
         FROM notes WHERE user_id = $1
         ORDER BY created_at DESC
         LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to get user notes", slog.Any("error", err))
		return nil, 0, fmt.Errorf("failed to get user notes: %w", err)
	}
	defer rows.Close()

	var notes []*types.Note
	for rows.Next() {
		var note types.Note
		err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan note", slog.Any("error", err))
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating note rows", slog.Any("error", err))
		return nil, 0, fmt.Errorf("error iterating note rows: %w", err)
	}
	return notes, total, nil
}
