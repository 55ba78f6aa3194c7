package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"connect-service/internal/auth"
	"connect-service/internal/auth/credentials"
	"connect-service/internal/db"

	"github.com/google/uuid"
)

const userColumns = `id, username, email, email_verified, is_active, has_usable_password, created_at, updated_at`

// DBRepository is the SQL backed Repository.
type DBRepository struct {
	db  *db.DB
	now func() time.Time
}

func NewDBRepository(d *db.DB) *DBRepository {
	return &DBRepository{
		db:  d,
		now: func() time.Time { return time.Now().UTC() },
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*auth.Profile, error) {
	var p auth.Profile
	if err := row.Scan(&p.ID, &p.UserID, &p.Provider, &p.ProviderUserID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ScanUser reads a row selected with the standard user column list.
func ScanUser(row rowScanner) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.EmailVerified,
		&u.IsActive,
		&u.HasUsablePassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *DBRepository) FindProfile(ctx context.Context, keys auth.LookupKeys) (*auth.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, user_id, provider, provider_user_id, created_at
		FROM identities
		WHERE provider = ?
		  AND provider_user_id = ?
	`), keys.Provider, keys.ProviderUserID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: find: %w", err)
	}
	return p, nil
}

func (r *DBRepository) FindUserProfile(ctx context.Context, userID string, keys auth.LookupKeys) (*auth.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT id, user_id, provider, provider_user_id, created_at
		FROM identities
		WHERE user_id = ?
		  AND provider = ?
		  AND provider_user_id = ?
	`), userID, keys.Provider, keys.ProviderUserID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: find user profile: %w", err)
	}
	return p, nil
}

func (r *DBRepository) CreateProfile(ctx context.Context, userID string, keys auth.LookupKeys) (*auth.Profile, error) {
	p := &auth.Profile{
		ID:             uuid.NewString(),
		UserID:         userID,
		Provider:       keys.Provider,
		ProviderUserID: keys.ProviderUserID,
		CreatedAt:      r.now(),
	}
	if err := r.insertProfile(ctx, r.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *DBRepository) insertProfile(ctx context.Context, exec credentials.Execer, p *auth.Profile) error {
	_, err := exec.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO identities (id, user_id, provider, provider_user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`), p.ID, p.UserID, p.Provider, p.ProviderUserID, p.CreatedAt)

	if err != nil {
		return fmt.Errorf("profile: insert: %w", err)
	}
	return nil
}

func (r *DBRepository) ListProfiles(ctx context.Context, userID string) ([]auth.Profile, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
		SELECT id, user_id, provider, provider_user_id, created_at
		FROM identities
		WHERE user_id = ?
		ORDER BY created_at, provider
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}
	defer rows.Close()

	var out []auth.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("profile: list scan: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *DBRepository) GetUser(ctx context.Context, userID string) (*auth.User, error) {
	u, err := ScanUser(r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`), userID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("profile: get user: %w", err)
	}
	return u, nil
}

func (r *DBRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
		SELECT EXISTS (
			SELECT 1 FROM users WHERE username = ?
		)
	`), username).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("profile: username exists: %w", err)
	}
	return exists, nil
}

func (r *DBRepository) CreateAccount(ctx context.Context, acct NewAccount) (*auth.User, *auth.Profile, error) {
	if acct.User.Username == "" {
		return nil, nil, errors.New("profile: username is required")
	}

	now := r.now()

	user := &auth.User{
		ID:                uuid.NewString(),
		Username:          acct.User.Username,
		Email:             acct.User.Email,
		EmailVerified:     acct.User.EmailVerified,
		IsActive:          true,
		HasUsablePassword: acct.Password != "",
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	profile := &auth.Profile{
		ID:             uuid.NewString(),
		UserID:         user.ID,
		Provider:       acct.Profile.Provider,
		ProviderUserID: acct.Profile.ProviderUserID,
		CreatedAt:      now,
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("profile: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 1. User
	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`),
		user.ID,
		user.Username,
		user.Email,
		user.EmailVerified,
		user.IsActive,
		user.HasUsablePassword,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if db.IsUniqueViolation(err) {
		return nil, nil, auth.ErrUsernameTaken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("profile: insert user: %w", err)
	}

	// 2. Profile
	if err := r.insertProfile(ctx, tx, profile); err != nil {
		return nil, nil, err
	}

	// 3. Optional password
	if acct.Password != "" {
		if _, err := credentials.Put(ctx, tx, r.db.Rebind, user.ID, acct.Password, now); err != nil {
			return nil, nil, fmt.Errorf("profile: store password: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("profile: commit: %w", err)
	}

	return user, profile, nil
}
