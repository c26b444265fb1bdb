package db

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniquePrefix   = "UNIQUE constraint failed:"
	pgDuplicateKeyPrefix = "duplicate key value"
)

// UniqueViolation reports whether err is a unique constraint violation on any
// supported driver. target is the constraint name or the offending column list
// when the driver exposes one.
func UniqueViolation(err error) (target string, ok bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return pqErr.Constraint, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return mysqlKeyName(myErr.Message), true
	}

	msg := err.Error()
	if idx := strings.Index(msg, sqliteUniquePrefix); idx >= 0 {
		return strings.TrimSpace(msg[idx+len(sqliteUniquePrefix):]), true
	}
	if strings.Contains(msg, pgDuplicateKeyPrefix) {
		return msg, true
	}
	return "", false
}

// IsUniqueViolation reports whether err is a unique violation, optionally
// restricted to targets mentioning constraintName.
func IsUniqueViolation(err error, constraintName string) bool {
	target, ok := UniqueViolation(err)
	if !ok {
		return false
	}
	if constraintName == "" {
		return true
	}
	return strings.Contains(target, constraintName)
}

// mysqlKeyName extracts the key from "Duplicate entry 'x' for key 'tbl.key'".
func mysqlKeyName(message string) string {
	const marker = "for key '"
	idx := strings.LastIndex(message, marker)
	if idx < 0 {
		return message
	}
	key := strings.TrimSuffix(message[idx+len(marker):], "'")
	return key
}
