package profile

import (
	"context"

	"connect-service/internal/auth"
)

// Repository persists users and the profiles linking them to remote
// identities. It never decides whether a link should exist; the connect
// flow does.
type Repository interface {
	// FindProfile returns auth.ErrProfileNotFound when no profile matches.
	FindProfile(ctx context.Context, keys auth.LookupKeys) (*auth.Profile, error)

	// FindUserProfile is FindProfile restricted to profiles owned by userID.
	FindUserProfile(ctx context.Context, userID string, keys auth.LookupKeys) (*auth.Profile, error)

	// CreateProfile links keys to an existing user.
	CreateProfile(ctx context.Context, userID string, keys auth.LookupKeys) (*auth.Profile, error)

	ListProfiles(ctx context.Context, userID string) ([]auth.Profile, error)

	// GetUser returns auth.ErrUserNotFound when userID is unknown.
	GetUser(ctx context.Context, userID string) (*auth.User, error)

	UsernameExists(ctx context.Context, username string) (bool, error)

	// CreateAccount stores the user, then its profile, then the optional
	// password, in one transaction. Returns auth.ErrUsernameTaken when the
	// username is in use.
	CreateAccount(ctx context.Context, acct NewAccount) (*auth.User, *auth.Profile, error)
}

// NewAccount is a signup ready to be persisted.
type NewAccount struct {
	User    auth.UnsavedUser
	Profile auth.UnsavedProfile

	// Password is optional. Empty means the account has no usable password.
	Password string
}
