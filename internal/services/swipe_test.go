package services_test

import (
	"context"
	"testing"

	"crush-backend/internal/models"
	"crush-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPair(t *testing.T) (*fakeUserStore, *services.SwipeService) {
	t.Helper()

	store := newFakeUserStore(
		&models.User{ID: "a", Email: "a@test.com", Name: "Alice", Gender: models.GenderFemale},
		&models.User{ID: "b", Email: "b@test.com", Name: "Bob", Gender: models.GenderMale},
	)
	return store, services.NewSwipeService(store)
}

func TestSwipeLikeRecordsWithoutMatch(t *testing.T) {
	store, svc := seedPair(t)
	ctx := context.Background()

	result, err := svc.Swipe(ctx, "a", "b", services.ActionLike)
	require.NoError(t, err)
	assert.False(t, result.Match)
	assert.Equal(t, "Swipe recorded", result.Message)

	a := store.users["a"]
	assert.Contains(t, a.Likes, "b")
	assert.Empty(t, a.Matches)
	assert.Empty(t, store.users["b"].Matches)
}

func TestSwipeMutualLikeCreatesMatch(t *testing.T) {
	for _, order := range [][2]string{{"a", "b"}, {"b", "a"}} {
		store, svc := seedPair(t)
		ctx := context.Background()

		first, err := svc.Swipe(ctx, order[0], order[1], services.ActionLike)
		require.NoError(t, err)
		assert.False(t, first.Match)

		second, err := svc.Swipe(ctx, order[1], order[0], services.ActionLike)
		require.NoError(t, err)
		assert.True(t, second.Match)
		assert.Equal(t, "It's a match!", second.Message)

		// matches must be symmetric
		assert.Contains(t, store.users["a"].Matches, "b")
		assert.Contains(t, store.users["b"].Matches, "a")
	}
}

func TestSwipeDuplicateLikeFails(t *testing.T) {
	_, svc := seedPair(t)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, "a", "b", services.ActionLike)
	require.NoError(t, err)

	_, err = svc.Swipe(ctx, "a", "b", services.ActionLike)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrAlreadyActed)
}

func TestSwipeRejectTwoStrike(t *testing.T) {
	store, svc := seedPair(t)
	ctx := context.Background()

	// First rejection is soft
	result, err := svc.Swipe(ctx, "a", "b", services.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, "Rejected once", result.Message)
	assert.Contains(t, store.users["a"].RejectedOnce, "b")
	assert.NotContains(t, store.users["a"].Rejected, "b")

	// Second rejection is permanent and moves the id between sets
	result, err = svc.Swipe(ctx, "a", "b", services.ActionReject)
	require.NoError(t, err)
	assert.Equal(t, "Rejected permanently", result.Message)
	assert.Contains(t, store.users["a"].Rejected, "b")
	assert.NotContains(t, store.users["a"].RejectedOnce, "b")

	// Third rejection fails
	_, err = svc.Swipe(ctx, "a", "b", services.ActionReject)
	assert.ErrorIs(t, err, services.ErrAlreadyActed)
}

func TestSwipeInvalidAction(t *testing.T) {
	_, svc := seedPair(t)

	_, err := svc.Swipe(context.Background(), "a", "b", "superlike")
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}

func TestSwipeUnknownUsers(t *testing.T) {
	_, svc := seedPair(t)
	ctx := context.Background()

	_, err := svc.Swipe(ctx, "missing", "b", services.ActionLike)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.Swipe(ctx, "a", "missing", services.ActionLike)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestSwipeOnSelf(t *testing.T) {
	_, svc := seedPair(t)

	_, err := svc.Swipe(context.Background(), "a", "a", services.ActionLike)
	assert.ErrorIs(t, err, services.ErrInvalidArgument)
}
