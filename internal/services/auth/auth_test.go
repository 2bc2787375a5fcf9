package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/lib/jwt"
	"github.com/evseevmm/donation-platform/internal/lib/password"
	"github.com/evseevmm/donation-platform/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test_secret", 24*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(UserRepositoryMock)
	events := new(PublisherMock)
	svc := NewAuthService(repo, newMaker(), events)

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "new@example.com" &&
			u.Username == "newuser" &&
			u.Role == models.RoleUser &&
			u.SubscriptionStatus == models.SubscriptionStatusInactive &&
			u.PasswordHash != "" &&
			u.PasswordHash != "secret123"
	})).Return(&models.User{
		UID:                "7c3de3a1-9152-4a7e-b4cb-0a0c94e2b301",
		Email:              "new@example.com",
		Username:           "newuser",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionStatusInactive,
	}, nil).Once()
	events.On("Publish", "user.registered", mock.Anything).Return(nil).Once()

	user, token, err := svc.Register(context.Background(), "new@example.com", "newuser", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.SubscriptionStatusInactive, user.SubscriptionStatus)

	// Токен должен декодироваться в uid и email нового пользователя.
	claims, err := newMaker().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UID, claims.UserUID)
	assert.Equal(t, "new@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Second)

	repo.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestAuthService_Register_ConflictPassesThrough(t *testing.T) {
	repo := new(UserRepositoryMock)
	svc := NewAuthService(repo, newMaker(), nil)

	repo.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, apperr.Conflict("email")).Once()

	user, token, err := svc.Register(context.Background(), "dup@example.com", "dupuser", "secret123")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Empty(t, token)

	ce, ok := apperr.AsConflict(err)
	require.True(t, ok)
	assert.Equal(t, "email", ce.Field)

	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("correct_password")
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "uid-1",
		Email:        "user@example.com",
		Username:     "user1",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	tests := []struct {
		name        string
		username    string
		rawPassword string
		repoUser    *models.User
		repoErr     error
		wantErr     bool
	}{
		{
			name:        "valid credentials",
			username:    "user1",
			rawPassword: "correct_password",
			repoUser:    storedUser,
		},
		{
			name:        "wrong password",
			username:    "user1",
			rawPassword: "wrong_password",
			repoUser:    storedUser,
			wantErr:     true,
		},
		{
			name:        "unknown user",
			username:    "ghost",
			rawPassword: "whatever",
			repoErr:     errors.New("storage: no rows"),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepositoryMock)
			svc := NewAuthService(repo, newMaker(), nil)

			if tt.repoErr != nil {
				repo.On("GetUserByUsername", mock.Anything, tt.username).
					Return(nil, tt.repoErr).Once()
			} else {
				repo.On("GetUserByUsername", mock.Anything, tt.username).
					Return(tt.repoUser, nil).Once()
			}

			token, role, err := svc.Login(context.Background(), tt.username, tt.rawPassword)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperr.ErrInvalidCredentials))
				assert.Empty(t, token)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, models.RoleAdmin, role)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := NewAuthService(new(UserRepositoryMock), newMaker(), nil)

	token, err := newMaker().GenerateToken("uid-9", "v@example.com", "user")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-9", claims.UserUID)

	_, err = svc.ValidateToken(context.Background(), "garbage.token.value")
	require.Error(t, err)
}
