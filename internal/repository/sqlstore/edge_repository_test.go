package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/repository"
)

func TestFollowRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u1 := mustUser(t, s, "testuser1")
	u2 := mustUser(t, s, "testuser2")
	u3 := mustUser(t, s, "testuser3")
	repo := s.Follows(s.DB)

	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))
	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID), "second follow is a no-op")
	require.NoError(t, repo.Create(ctx, u3.ID, u2.ID))

	ok, err := repo.Exists(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Exists(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	following, err := repo.ListFollowing(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "testuser2", following[0].Username)

	followers, err := repo.ListFollowers(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "testuser1", followers[0].Username)
	assert.Equal(t, "testuser3", followers[1].Username)

	n, err := repo.CountFollowers(ctx, u2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = repo.CountFollowing(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, u1.ID, u2.ID))
	require.ErrorIs(t, repo.Delete(ctx, u1.ID, u2.ID), repository.ErrNotFound)
}

func TestFollowRepository_Constraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := mustUser(t, s, "solo")

	require.ErrorIs(t, s.Follows(s.DB).Create(ctx, u.ID, u.ID), repository.ErrIntegrity)
	require.ErrorIs(t, s.Follows(s.DB).Create(ctx, u.ID, 999), repository.ErrIntegrity)
}

func TestLikeRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u1 := mustUser(t, s, "liker")
	u2 := mustUser(t, s, "poster")
	m1 := mustMessage(t, s, u2.ID, "one", time.Now().UTC())
	m2 := mustMessage(t, s, u2.ID, "two", time.Now().UTC())
	repo := s.Likes(s.DB)

	require.NoError(t, repo.Create(ctx, u1.ID, m2.ID))
	require.NoError(t, repo.Create(ctx, u1.ID, m1.ID))
	require.NoError(t, repo.Create(ctx, u2.ID, m1.ID))
	require.NoError(t, repo.Create(ctx, u1.ID, m1.ID))
	require.ErrorIs(t, repo.Create(ctx, u1.ID, 9999), repository.ErrIntegrity)

	ok, err := repo.Exists(ctx, u1.ID, m1.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := repo.CountForMessage(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ids, err := repo.ListMessageIDsByUser(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{m1.ID, m2.ID}, ids)

	require.NoError(t, repo.Delete(ctx, u1.ID, m1.ID))
	require.ErrorIs(t, repo.Delete(ctx, u1.ID, m1.ID), repository.ErrNotFound)

	require.NoError(t, s.Messages(s.DB).Delete(ctx, m2.ID))
	ids, err = repo.ListMessageIDsByUser(ctx, u1.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
