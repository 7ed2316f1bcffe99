package usecase

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isDuplicateKeyError reports whether err is a unique violation on a
// constraint whose name mentions column.
func isDuplicateKeyError(err error, column string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return strings.Contains(pgErr.ConstraintName, column)
	}
	return false
}

// isForeignKeyError reports whether err is a foreign key violation on a
// constraint whose name mentions table.
func isForeignKeyError(err error, table string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return strings.Contains(pgErr.ConstraintName, table)
	}
	return false
}
