package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"connect-service/internal/auth"
	"connect-service/internal/auth/profile"
	"connect-service/internal/db"
)

// DBResolver resolves identities through the identities table.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(d *db.DB) *DBResolver {
	return &DBResolver{db: d}
}

func (r *DBResolver) Authenticate(
	ctx context.Context,
	keys auth.LookupKeys,
) (*auth.User, error) {

	if keys.Provider == "" || keys.ProviderUserID == "" {
		return nil, errors.New("resolver: incomplete lookup keys")
	}

	user, err := profile.ScanUser(r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT u.id, u.username, u.email, u.email_verified, u.is_active,
		       u.has_usable_password, u.created_at, u.updated_at
		FROM identities i
		JOIN users u ON u.id = i.user_id
		WHERE i.provider = ?
		  AND i.provider_user_id = ?
	`),
		keys.Provider,
		keys.ProviderUserID,
	))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolver: authenticate: %w", err)
	}

	return user, nil
}
