package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evseevmm/donation-platform/internal/apperr"
	"github.com/evseevmm/donation-platform/internal/models"
)

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func TestStorage_CreateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	created, err := storage.CreateUser(ctx, models.User{
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hashedpassword",
		Role:         models.RoleUser,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.UID)
	assert.Equal(t, models.SubscriptionStatusInactive, created.SubscriptionStatus)

	NewTestVerification(storage).VerifyUserExists(t, created.UID)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Email:        "alice@example.com",
			Username:     "alice2",
			PasswordHash: "hashedpassword",
			Role:         models.RoleUser,
		})
		require.Error(t, err)
		ce, ok := apperr.AsConflict(err)
		require.True(t, ok)
		assert.Equal(t, "email", ce.Field)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Email:        "alice3@example.com",
			Username:     "alice",
			PasswordHash: "hashedpassword",
			Role:         models.RoleUser,
		})
		require.Error(t, err)
		ce, ok := apperr.AsConflict(err)
		require.True(t, ok)
		assert.Equal(t, "username", ce.Field)
	})

	t.Run("duplicate email and username reports email", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{
			Email:        "alice@example.com",
			Username:     "alice",
			PasswordHash: "hashedpassword",
			Role:         models.RoleUser,
		})
		require.Error(t, err)
		ce, ok := apperr.AsConflict(err)
		require.True(t, ok)
		assert.Equal(t, "email", ce.Field)
	})
}

// Два конкурирующих запроса с одинаковым email: ровно один должен победить,
// второй получает конфликт от ограничения таблицы, а не гонку.
func TestStorage_CreateUser_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	const attempts = 2
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = storage.CreateUser(ctx, models.User{
				Email:        "race@example.com",
				Username:     "racer" + string(rune('a'+i)),
				PasswordHash: "hashedpassword",
				Role:         models.RoleUser,
			})
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		ce, ok := apperr.AsConflict(err)
		require.True(t, ok, "unexpected error kind: %v", err)
		assert.Equal(t, "email", ce.Field)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	var count int
	err := storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", "race@example.com").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_GetUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "bob", "bob@example.com", models.RoleAdmin)

	ctx := context.Background()

	got, err := storage.GetUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Username)
	assert.Equal(t, models.RoleAdmin, got.Role)

	t.Run("missing user", func(t *testing.T) {
		_, err := storage.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_Posts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "author", "author@example.com", models.RoleUser)

	ctx := context.Background()

	id, err := storage.CreatePost(ctx, models.Post{
		UserUID: uid,
		Title:   "first post",
		Content: "hello",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := storage.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first post", got.Title)
	assert.Equal(t, uid, got.UserUID)

	n, err := storage.UpdatePost(ctx, id, "updated title", "updated content")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = storage.GetPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "updated title", got.Title)
	assert.NotNil(t, got.UpdatedAt)

	posts, err := storage.ListPosts(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	n, err = storage.DeletePost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	NewTestVerification(storage).VerifyPostDeleted(t, id)

	t.Run("missing post", func(t *testing.T) {
		_, err := storage.GetPost(ctx, id)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_Payments(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "payer", "payer@example.com", models.RoleUser)

	ctx := context.Background()

	id, err := storage.SavePayment(ctx, models.Payment{
		UserUID:           uid,
		ProviderPaymentID: "pi_100",
		AmountCents:       5000,
		Currency:          "usd",
		Status:            models.PaymentStatusPending,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	updated, err := storage.UpdatePaymentStatus(ctx, "pi_100", models.PaymentStatusSucceeded)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSucceeded, updated.Status)
	assert.Equal(t, uid, updated.UserUID)

	byUser, err := storage.ListPaymentsByUser(ctx, uid)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, int64(5000), byUser[0].AmountCents)

	t.Run("missing payment", func(t *testing.T) {
		_, err := storage.UpdatePaymentStatus(ctx, "pi_missing", models.PaymentStatusSucceeded)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestStorage_Subscriptions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "subscriber", "subscriber@example.com", models.RoleUser)
	planID := factory.CreatePlan(t, "monthly", 990, 1)

	ctx := context.Background()

	plans, err := storage.ListPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "monthly", plans[0].Name)

	subID, err := storage.CreateSubscription(ctx, models.Subscription{
		UserUID: uid,
		PlanID:  planID,
		Status:  models.SubscriptionStatusInactive,
	})
	require.NoError(t, err)
	require.NotZero(t, subID)

	periodEnd := time.Now().AddDate(0, 1, 0)
	err = storage.UpdateSubscriptionStatus(ctx, subID, models.SubscriptionStatusActive,
		nullTime(periodEnd))
	require.NoError(t, err)

	active, err := storage.GetActiveSubscription(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, subID, active.ID)
	require.NotNil(t, active.CurrentPeriodEnd)

	err = storage.UpdateUserSubscription(ctx, uid, models.SubscriptionStatusActive, nullTime(periodEnd))
	require.NoError(t, err)
	NewTestVerification(storage).VerifyUserSubscriptionStatus(t, uid, models.SubscriptionStatusActive)

	t.Run("no active subscription", func(t *testing.T) {
		err := storage.UpdateSubscriptionStatus(ctx, subID, models.SubscriptionStatusCanceled, nullTime(periodEnd))
		require.NoError(t, err)
		_, err = storage.GetActiveSubscription(ctx, uid)
		require.ErrorIs(t, err, apperr.ErrNotFound)
	})
}
