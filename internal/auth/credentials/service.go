package credentials

import (
	"context"
	"database/sql"
	"time"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Rebinder rewrites placeholders for the active driver.
type Rebinder func(query string) string

// Put hashes password and stores it for userID using exec, which is usually
// the transaction that created the user.
func Put(
	ctx context.Context,
	exec Execer,
	rebind Rebinder,
	userID string,
	password string,
	now time.Time,
) (*Credential, error) {

	hash, version, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	c := &Credential{
		UserID:       userID,
		PasswordHash: hash,
		HashVersion:  version,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = exec.ExecContext(ctx, rebind(`
		INSERT INTO credentials (user_id, password_hash, hash_version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), c.UserID, c.PasswordHash, c.HashVersion, c.CreatedAt, c.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return c, nil
}
