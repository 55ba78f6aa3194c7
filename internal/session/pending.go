package session

import (
	"context"
	"time"

	"connect-service/internal/auth"
)

// Pending is the state of an in-progress social login for one browser:
// the post-login target, the identity clients keyed by provider session
// key, and the unsaved signup once the decision flow hands over to setup.
type Pending struct {
	Next    string                      `json:"next,omitempty"`
	Clients map[string]auth.ClientState `json:"clients,omitempty"`
	Signup  *auth.Signup                `json:"signup,omitempty"`
}

// Client returns the client stored under key.
func (p *Pending) Client(key string) (auth.ClientState, bool) {
	if p == nil || p.Clients == nil {
		return auth.ClientState{}, false
	}
	c, ok := p.Clients[key]
	return c, ok
}

// SetClient stores c under key.
func (p *Pending) SetClient(key string, c auth.ClientState) {
	if p.Clients == nil {
		p.Clients = make(map[string]auth.ClientState)
	}
	p.Clients[key] = c
}

// NextOr returns the stored post-login target or fallback.
func (p *Pending) NextOr(fallback string) string {
	if p == nil || p.Next == "" {
		return fallback
	}
	return p.Next
}

// PendingStore keeps Pending values under an opaque browser id.
type PendingStore interface {
	// Get returns (nil, nil) when nothing is stored for id.
	Get(ctx context.Context, id string) (*Pending, error)
	Save(ctx context.Context, id string, p *Pending, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
