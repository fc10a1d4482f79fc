// Package sqlstore implements the repository interfaces on database/sql,
// against either SQLite (modernc.org/sqlite) or PostgreSQL (pgx).
package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"warbler/internal/dbx"
	"warbler/internal/repository"
)

// Dialect selects the SQL flavour spoken by the store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's native form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// Store owns the connection pool and vends repositories bound to it or to a
// transaction.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

var _ repository.Manager = (*Store)(nil)

// ParseDSN splits a DATABASE_URL style string into a dialect and the
// driver-level data source.
//
//	postgres://... | postgresql://...  -> PostgreSQL, DSN passed through
//	sqlite://path                      -> SQLite file at path
//	anything else                      -> SQLite, DSN passed through
func ParseDSN(dsn string) (Dialect, string) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return DialectPostgres, dsn
	case strings.HasPrefix(dsn, "sqlite://"):
		return DialectSQLite, strings.TrimPrefix(dsn, "sqlite://")
	default:
		return DialectSQLite, dsn
	}
}

// Open connects to the database described by dsn. The schema is not touched;
// call Migrate for that.
func Open(dsn string) (*Store, error) {
	dialect, source := ParseDSN(dsn)
	if source == "" {
		return nil, fmt.Errorf("database url is empty")
	}

	if dialect == DialectPostgres {
		db, err := sql.Open("pgx", source)
		if err != nil {
			return nil, fmt.Errorf("open postgres db: %w", err)
		}
		return &Store{DB: db, Dialect: DialectPostgres}, nil
	}

	db, err := openSQLite(source)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db, Dialect: DialectSQLite}, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single connection keeps :memory: databases alive and serialises writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

func (s *Store) Users(db dbx.DBTX) repository.UserRepository {
	return &UserRepository{db: db, dialect: s.Dialect}
}

func (s *Store) Messages(db dbx.DBTX) repository.MessageRepository {
	return &MessageRepository{db: db, dialect: s.Dialect}
}

func (s *Store) Follows(db dbx.DBTX) repository.FollowRepository {
	return &FollowRepository{db: db, dialect: s.Dialect}
}

func (s *Store) Likes(db dbx.DBTX) repository.LikeRepository {
	return &LikeRepository{db: db, dialect: s.Dialect}
}
