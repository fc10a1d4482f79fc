package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warbler/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background(), nil))
	return s
}

func mustUser(t *testing.T, s *Store, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@test.com", PasswordHash: "HASHED_PASSWORD"}
	_, err := s.Users(s.DB).Create(context.Background(), u)
	require.NoError(t, err)
	return u
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		in      string
		dialect Dialect
		source  string
	}{
		{"postgres://u:p@localhost/warbler", DialectPostgres, "postgres://u:p@localhost/warbler"},
		{"postgresql://localhost/warbler", DialectPostgres, "postgresql://localhost/warbler"},
		{"sqlite://data/warbler.db", DialectSQLite, "data/warbler.db"},
		{":memory:", DialectSQLite, ":memory:"},
		{"  warbler.db ", DialectSQLite, "warbler.db"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, src := ParseDSN(tt.in)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.source, src)
		})
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM follows WHERE user_being_followed_id = ? AND user_following_id = ?`
	assert.Equal(t, q, DialectSQLite.Rebind(q))
	assert.Equal(t,
		`SELECT * FROM follows WHERE user_being_followed_id = $1 AND user_following_id = $2`,
		DialectPostgres.Rebind(q))
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open("sqlite://")
	require.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Migrate(context.Background(), nil))

	var n int
	require.NoError(t, s.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_UsesDialectDirectory(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	s := &Store{Dialect: DialectPostgres}
	require.NoError(t, s.Migrate(context.Background(), nil))
	assert.Equal(t, "migrations/postgres", gotDir)
}

func TestMigrate_Error(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	s := &Store{Dialect: DialectSQLite}
	err := s.Migrate(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestManager_ReturnsBoundRepositories(t *testing.T) {
	s := newTestStore(t)
	assert.NotNil(t, s.Users(s.DB))
	assert.NotNil(t, s.Messages(s.DB))
	assert.NotNil(t, s.Follows(s.DB))
	assert.NotNil(t, s.Likes(s.DB))
}
