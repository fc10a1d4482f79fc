package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsDirected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.signup(t, "testuser1")
	u2 := env.signup(t, "testuser2")

	require.NoError(t, env.follows.Follow(ctx, u1.ID, u2.ID))

	ok, err := env.follows.IsFollowing(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.follows.IsFollowing(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.follows.IsFollowedBy(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = env.follows.IsFollowedBy(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	following, err := env.follows.Following(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	followers, err := env.follows.Followers(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, u1.ID, followers[0].ID)

	counts, err := env.follows.Counts(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, FollowCounts{Following: 1, Followers: 0}, counts)
}

func TestFollowRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.signup(t, "a")
	u2 := env.signup(t, "b")

	require.ErrorIs(t, env.follows.Follow(ctx, u1.ID, u1.ID), ErrSelfFollow)
	require.ErrorIs(t, env.follows.Follow(ctx, u1.ID, 999), ErrUserNotFound)

	require.NoError(t, env.follows.Follow(ctx, u1.ID, u2.ID))
	require.NoError(t, env.follows.Follow(ctx, u1.ID, u2.ID))
	counts, err := env.follows.Counts(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Followers)

	require.NoError(t, env.follows.Unfollow(ctx, u1.ID, u2.ID))
	require.NoError(t, env.follows.Unfollow(ctx, u1.ID, u2.ID))
	ok, err := env.follows.IsFollowing(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
