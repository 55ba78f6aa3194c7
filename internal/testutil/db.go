// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"connect-service/internal/db"
)

// OpenDB returns a migrated in-memory SQLite database closed with the test.
func OpenDB(t testing.TB) *db.DB {
	t.Helper()
	ctx := context.Background()

	d, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := db.Migrate(ctx, d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

// SetUserActive flips the active flag of a stored user.
func SetUserActive(t testing.TB, d *db.DB, userID string, active bool) {
	t.Helper()
	_, err := d.ExecContext(context.Background(),
		d.Rebind(`UPDATE users SET is_active = ? WHERE id = ?`), active, userID)
	if err != nil {
		t.Fatalf("set user active: %v", err)
	}
}
