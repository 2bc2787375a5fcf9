package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	libjwt "github.com/evseevmm/donation-platform/internal/lib/jwt"
	"github.com/evseevmm/donation-platform/internal/models"
)

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (*libjwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*libjwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	validatorMock := new(TokenValidatorMock)
	logger := newNoopLogger()

	handlerCalled := false

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		uid := r.Context().Value(middlewarectx.UserUID)
		email := r.Context().Value(middlewarectx.Email)
		role := r.Context().Value(middlewarectx.Role)
		assert.Equal(t, "uid-123", uid)
		assert.Equal(t, "testuser@example.com", email)
		assert.Equal(t, "user", role)
		w.WriteHeader(http.StatusOK)
	})

	middleware := middlewarectx.JWTMiddleware(validatorMock, logger)(nextHandler)

	tests := []struct {
		name           string
		authHeader     string
		mockClaims     *libjwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockClaims:     nil,
			mockErr:        errors.New("jwt.ParseToken: token is expired"),
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer validtoken",
			mockClaims: &libjwt.CustomClaims{
				UserUID: "uid-123",
				Email:   "testuser@example.com",
				Role:    "user",
			},
			mockErr:        nil,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false
			validatorMock.ExpectedCalls = nil
			validatorMock.Calls = nil
			if tt.mockClaims != nil || tt.mockErr != nil {
				validatorMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(tt.mockClaims, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()

			middleware.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			validatorMock.AssertExpectations(t)
		})
	}
}

// Запрос без заголовка Authorization на защищённый маршрут должен получить
// 403 "authentication required" от middleware, не доходя до обработчика.
func TestJWTMiddleware_MissingAuthOnProtectedRoute(t *testing.T) {
	validatorMock := new(TokenValidatorMock)
	logger := newNoopLogger()

	handlerCalled := false
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(validatorMock, logger))
		r.Use(middlewarectx.RequireRole(models.RoleUser, logger))
		r.Get("/users/{userUID}", func(w http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
			w.WriteHeader(http.StatusOK)
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/users/uid-123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, handlerCalled)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "Error", body["status"])
	assert.Equal(t, "authentication required", body["error"])
	validatorMock.AssertExpectations(t)
}

// Невалидный токен также означает отсутствие аутентифицированного
// пользователя: тот же 403 через единую точку классификации.
func TestJWTMiddleware_InvalidTokenMessage(t *testing.T) {
	validatorMock := new(TokenValidatorMock)
	validatorMock.On("ValidateToken", mock.Anything, "badtoken").
		Return(nil, errors.New("jwt.ParseToken: signature is invalid")).Once()

	middleware := middlewarectx.JWTMiddleware(validatorMock, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
	req.Header.Set("Authorization", "Bearer badtoken")
	rec := httptest.NewRecorder()
	middleware.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "authentication required", body["error"])
	validatorMock.AssertExpectations(t)
}
