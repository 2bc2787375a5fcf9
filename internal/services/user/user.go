// Package user содержит бизнес-логику чтения пользователей.
// Наружу уходят только безопасные проекции без хэша пароля.
package user

import (
	"context"
	"log/slog"

	"github.com/evseevmm/donation-platform/internal/models"
)

// UserRepository определяет методы чтения пользователей из хранилища.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// UserService реализует операции над пользователями.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Get возвращает проекцию пользователя по UID.
func (s *UserService) Get(ctx context.Context, userUID string) (*models.UserProjection, error) {
	u, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	p := u.Project()
	return &p, nil
}

// List возвращает проекции пользователей с пагинацией.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.UserProjection, error) {
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]models.UserProjection, 0, len(users))
	for _, u := range users {
		result = append(result, u.Project())
	}
	return result, nil
}
