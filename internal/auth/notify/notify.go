// Package notify delivers connect and login notifications. Notifiers are
// fire-and-forget: failures are logged, never returned to the flow.
package notify

import (
	"context"
	"time"

	"connect-service/internal/auth"
)

const (
	EventConnect = "connect"
	EventLogin   = "login"
)

// Notifier observes successful connects and logins.
type Notifier interface {
	Connected(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState)
	LoggedIn(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState)
}

// Event is the serialized form of a notification.
type Event struct {
	Type           string    `json:"type"`
	UserID         string    `json:"user_id"`
	Username       string    `json:"username"`
	ProfileID      string    `json:"profile_id,omitempty"`
	Provider       string    `json:"provider"`
	ProviderUserID string    `json:"provider_user_id"`
	At             time.Time `json:"at"`
}

// NewEvent flattens a notification into an Event.
func NewEvent(typ string, user *auth.User, profile *auth.Profile, client *auth.ClientState) Event {
	e := Event{Type: typ, At: time.Now().UTC()}
	if user != nil {
		e.UserID = user.ID
		e.Username = user.Username
	}
	if profile != nil {
		e.ProfileID = profile.ID
		e.Provider = profile.Provider
		e.ProviderUserID = profile.ProviderUserID
	}
	if client != nil && e.Provider == "" {
		e.Provider = client.Provider
	}
	return e
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Connected(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	for _, n := range m {
		n.Connected(ctx, user, profile, client)
	}
}

func (m Multi) LoggedIn(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	for _, n := range m {
		n.LoggedIn(ctx, user, profile, client)
	}
}
