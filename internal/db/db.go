package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

// Supported DATABASE_DRIVER values.
const (
	DriverPostgres = "postgres" // lib/pq
	DriverPgx      = "pgx"      // jackc/pgx stdlib
	DriverSQLite   = "sqlite"   // modernc.org/sqlite
)

// DB is a database handle that knows its placeholder style.
// Queries are written with '?' placeholders and rebound for postgres.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the database and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverPostgres, DriverPgx, DriverSQLite:
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open: %w", err)
	}

	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := sqlDB.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("db: enable foreign keys: %w", err)
		}
	}

	return &DB{DB: sqlDB, driver: driver}, nil
}

func (d *DB) Driver() string {
	return d.driver
}

// Rebind rewrites '?' placeholders to '$N' for postgres drivers.
func (d *DB) Rebind(query string) string {
	if d.driver == DriverSQLite {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
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

func (d *DB) gooseDialect() string {
	if d.driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}

// IsUniqueViolation reports whether err is a unique constraint failure on
// any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
		return false
	}

	// errors that lost their driver type on the way up
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
