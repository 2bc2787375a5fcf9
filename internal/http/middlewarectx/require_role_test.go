package middlewarectx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evseevmm/donation-platform/internal/http/middlewarectx"
	"github.com/evseevmm/donation-platform/internal/models"
)

func callGate(t *testing.T, required string, ctxValues map[middlewarectx.Key]string) (*httptest.ResponseRecorder, bool) {
	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	gate := middlewarectx.RequireRole(required, newNoopLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	ctx := req.Context()
	for k, v := range ctxValues {
		ctx = context.WithValue(ctx, k, v)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	return rec, handlerCalled
}

func TestRequireRole_AllPairs(t *testing.T) {
	roles := []string{models.RoleUser, models.RoleAdmin, models.RoleSuperadmin}

	// Шлюз пропускает тогда и только тогда, когда ранг роли не ниже требуемого.
	for i, callerRole := range roles {
		for j, required := range roles {
			rec, called := callGate(t, required, map[middlewarectx.Key]string{
				middlewarectx.UserUID: "uid-1",
				middlewarectx.Role:    callerRole,
			})

			wantAllowed := i >= j
			if wantAllowed {
				assert.Equal(t, http.StatusOK, rec.Code, "%s vs %s", callerRole, required)
				assert.True(t, called)
			} else {
				assert.Equal(t, http.StatusForbidden, rec.Code, "%s vs %s", callerRole, required)
				assert.False(t, called)
			}
		}
	}
}

func TestRequireRole_NoAuthenticatedUser(t *testing.T) {
	rec, called := callGate(t, models.RoleUser, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called, "handler must not run without an authenticated user")

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "authentication required", got["error"])
}

func TestRequireRole_InsufficientRoleMessage(t *testing.T) {
	rec, called := callGate(t, models.RoleAdmin, map[middlewarectx.Key]string{
		middlewarectx.UserUID: "uid-1",
		middlewarectx.Role:    models.RoleUser,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "insufficient permissions", got["error"])
}

func TestRequireRole_MissingRoleDefaultsToUser(t *testing.T) {
	rec, called := callGate(t, models.RoleUser, map[middlewarectx.Key]string{
		middlewarectx.UserUID: "uid-1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestRequireRole_UnknownRoleFailsClosed(t *testing.T) {
	rec, called := callGate(t, models.RoleAdmin, map[middlewarectx.Key]string{
		middlewarectx.UserUID: "uid-1",
		middlewarectx.Role:    "moderator",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
