package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rfcosta/notekeep/internal/api"
	"github.com/rfcosta/notekeep/internal/types"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Ensure ServiceImpl implements the Service interface
var _ Service = (*ServiceImpl)(nil)

// Service defines ownership-scoped note operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, title, content string) (*types.Note, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) (*types.NoteList, error)
	Get(ctx context.Context, userID, noteID uuid.UUID) (*types.Note, error)
	Update(ctx context.Context, userID, noteID uuid.UUID, params types.UpdateNoteParams) (*types.Note, error)
	Delete(ctx context.Context, userID, noteID uuid.UUID) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, userID uuid.UUID, title, content string) (*types.Note, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", api.ErrValidation)
	}
	return s.repo.CreateNote(ctx, userID, title, content)
}

// List returns one page of the user's notes, newest first. Out-of-range page
// and limit values fall back to the defaults.
func (s *ServiceImpl) List(ctx context.Context, userID uuid.UUID, page, limit int) (*types.NoteList, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := (page - 1) * limit
	notes, total, err := s.repo.GetUserNotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []*types.Note{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &types.NoteList{
		Notes: notes,
		Pagination: types.Pagination{
			Page:       page,
			Limit:      limit,
			TotalNotes: total,
			TotalPages: totalPages,
		},
	}, nil
}

func (s *ServiceImpl) Get(ctx context.Context, userID, noteID uuid.UUID) (*types.Note, error) {
	return s.repo.GetNote(ctx, userID, noteID)
}

// Update applies a partial update: only supplied fields overwrite, unspecified
// fields retain their prior value.
func (s *ServiceImpl) Update(ctx context.Context, userID, noteID uuid.UUID, params types.UpdateNoteParams) (*types.Note, error) {
	note, err := s.repo.GetNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, fmt.Errorf("%w: title must not be empty", api.ErrValidation)
		}
		note.Title = *params.Title
	}
	if params.Content != nil {
		note.Content = *params.Content
	}

	if err = s.repo.UpdateNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	return s.repo.DeleteNote(ctx, userID, noteID)
}
