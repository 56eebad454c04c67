package service

import (
	"context"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListProviders возвращает каталог провайдеров с аватарами
func (s *UserService) ListProviders(ctx context.Context) ([]*model.User, error) {
	providers, err := s.userRepo.ListProviders(ctx)
	if err != nil {
		s.logger.Error("Failed to list providers", zap.Error(err))
		return nil, internalError("list providers", err)
	}
	return providers, nil
}

// RequireProvider возвращает пользователя, если он провайдер, иначе ErrNotProvider
func (s *UserService) RequireProvider(ctx context.Context, userID int64) (*model.User, error) {
	return requireProvider(ctx, s.userRepo, userID)
}

func requireProvider(ctx context.Context, repo UserRepository, userID int64) (*model.User, error) {
	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internalError("get user", err)
	}
	if !user.HasProviderCapability() {
		return nil, ErrNotProvider
	}
	return user, nil
}
