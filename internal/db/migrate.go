package db

import (
	"context"
	"fmt"

	"connect-service/internal/db/migrations"

	"github.com/pressly/goose/v3"
)

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, d *DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(d.gooseDialect()); err != nil {
		return fmt.Errorf("db: set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, d.DB, "."); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
