package resolver

import (
	"context"

	"connect-service/internal/auth"
)

// Resolver determines which local user a remote identity belongs to.
// It authenticates by lookup keys, never by password, and never creates
// or links anything.
type Resolver interface {
	// Authenticate returns (nil, nil) when no user owns keys.
	Authenticate(ctx context.Context, keys auth.LookupKeys) (*auth.User, error)
}
