package database

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrNotFound is returned by updates and deletes that matched no row
var ErrNotFound = errors.New("record not found")

// PostgreSQL SQLSTATE codes the application reacts to
const (
	sqlStateUndefinedTable   = "42P01"
	sqlStateUniqueViolation  = "23505"
	sqlStateForeignKeyFailed = "23503"
)

// sqlState extracts the SQLSTATE from either driver's error type
func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUndefinedTable reports whether err was caused by a missing table
func IsUndefinedTable(err error) bool {
	return err != nil && sqlState(err) == sqlStateUndefinedTable
}

// IsUniqueViolation reports whether err was caused by a unique constraint
func IsUniqueViolation(err error) bool {
	return err != nil && sqlState(err) == sqlStateUniqueViolation
}

// IsForeignKeyViolation reports whether err was caused by a foreign key constraint
func IsForeignKeyViolation(err error) bool {
	return err != nil && sqlState(err) == sqlStateForeignKeyFailed
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
