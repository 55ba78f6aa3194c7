package session

import (
	"context"
	"time"
)

// Session represents an authenticated browser session.
// It stores only identity pointers, not provider state.
type Session struct {
	SessionID         string    `json:"session_id"`
	UserID            string    `json:"user_id"`
	CreatedAt         time.Time `json:"created_at"`
	AbsoluteExpiresAt time.Time `json:"absolute_expires_at"`
	ExpiresAt         time.Time `json:"expires_at"`
}

// ExpiryAt is the idle deadline for a session touched at now: now+idle,
// never past absolute. A non-positive idle disables sliding.
func ExpiryAt(now, absolute time.Time, idle time.Duration) time.Time {
	if idle <= 0 {
		return absolute
	}
	if e := now.Add(idle); e.Before(absolute) {
		return e
	}
	return absolute
}

// Refresh slides ExpiresAt forward for activity at now. It reports false when
// the deadline moved by less than half the idle window, so busy sessions are
// not rewritten on every request.
func (s Session) Refresh(now time.Time, idle time.Duration) (Session, bool) {
	if idle <= 0 {
		return s, false
	}
	next := ExpiryAt(now, s.AbsoluteExpiresAt, idle)
	if next.Sub(s.ExpiresAt) < idle/2 {
		return s, false
	}
	s.ExpiresAt = next
	return s, true
}

// Store defines how authenticated sessions are stored and retrieved.
type Store interface {
	Create(ctx context.Context, s Session) error
	// Get returns (nil, nil) when the session does not exist.
	Get(ctx context.Context, sessionID string) (*Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, sessionID string) error
}
