// Package auth содержит логику бизнес-уровня для регистрации и
// аутентификации пользователей.
package auth

import (
	"context"
	"fmt"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/lib/jwt"
	"github.com/evseevmm/donation-platform/internal/lib/password"
	"github.com/evseevmm/donation-platform/internal/models"
	"github.com/evseevmm/donation-platform/internal/rabbitmq"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя одной атомарной вставкой;
	// нарушение уникальности возвращается как ошибка конфликта.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// EventPublisher публикует события платформы; используется лучшим усилием.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	events   EventPublisher
}

// NewAuthService создает новый экземпляр AuthService.
// events может быть nil, тогда события регистрации не публикуются.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, events EventPublisher) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
	}
}

// RegisteredEvent — событие успешной регистрации для очереди уведомлений.
type RegisteredEvent struct {
	UserUID  string `json:"user_uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register создает нового пользователя с хэшированием пароля, дефолтной
// ролью "user" и статусом подписки "inactive", затем выпускает токен.
// Уникальность email и username решает только ограничение таблицы:
// конфликт возвращается как есть, вторая строка не появляется.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (*models.User, string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		Email:              email,
		Username:           username,
		PasswordHash:       hashed,
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionStatusInactive,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Email, created.Role)
	if err != nil {
		return nil, "", err
	}

	if s.events != nil {
		_ = s.events.Publish(rabbitmq.RoutingKeyUserRegistered, RegisteredEvent{
			UserUID:  created.UID,
			Username: created.Username,
			Email:    created.Email,
		})
	}

	return created, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", fmt.Errorf("login: %w", apperr.ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("login: %w", apperr.ErrInvalidCredentials)
	}
	token, err = s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен валиден.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
