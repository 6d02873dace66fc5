package profile

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rfcosta/notekeep/internal/types"
)

// Ensure ServiceImpl implements the Service interface
var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.Profile, error)
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

func (s *ServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

func (s *ServiceImpl) Update(ctx context.Context, userID uuid.UUID, params types.UpdateProfileParams) (*types.Profile, error) {
	return s.repo.UpdateProfile(ctx, userID, params)
}
