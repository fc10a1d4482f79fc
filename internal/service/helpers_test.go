package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"warbler/internal/domain"
	"warbler/internal/repository/sqlstore"
)

type testEnv struct {
	store    *sqlstore.Store
	users    UserService
	messages MessageService
	follows  FollowService
	likes    LikeService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background(), nil))

	users := NewUserService(store.DB, store)
	users.(*userService).cost = bcrypt.MinCost

	return &testEnv{
		store:    store,
		users:    users,
		messages: NewMessageService(store.DB, store),
		follows:  NewFollowService(store.DB, store),
		likes:    NewLikeService(store.DB, store),
	}
}

func (e *testEnv) signup(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := e.users.Signup(context.Background(), SignupInput{
		Username: name,
		Email:    name + "@test.com",
		Password: "password",
	})
	require.NoError(t, err)
	return u
}
