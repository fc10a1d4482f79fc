package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"warbler/internal/dbx"
	"warbler/internal/domain"
	"warbler/internal/repository"
)

// syncSequence moves a postgres serial past rows inserted with explicit ids.
func syncSequence(ctx context.Context, db dbx.DBTX, dialect Dialect, table string) error {
	if dialect != DialectPostgres {
		return nil
	}
	q := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), (SELECT MAX(id) FROM %[1]s))`, table)
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("sync %s sequence: %w", table, mapError(err))
	}
	return nil
}

func expectAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
	}
	return nil
}

func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", mapError(err))
	}
	return users, nil
}
