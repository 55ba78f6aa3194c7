package connect

import (
	"context"

	"connect-service/internal/auth"
	"connect-service/internal/session"
)

// Session is the browser state the flows read and mutate.
type Session interface {
	// UserID is the locally authenticated user, or "" when anonymous.
	UserID() string

	// Pending returns the pending social login state, or nil when the
	// browser has none. Mutations are persisted by SavePending.
	Pending() *session.Pending

	SavePending(ctx context.Context) error

	// ClearPending drops all pending social login state.
	ClearPending(ctx context.Context) error

	// Login binds the browser to user.
	Login(ctx context.Context, user *auth.User) error
}
