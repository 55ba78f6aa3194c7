package notify

import (
	"context"
	"sync"

	"connect-service/internal/auth"
)

// Recorder keeps every notification in memory. Tests use it to assert on
// what the flows emitted.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Connected(_ context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	r.add(NewEvent(EventConnect, user, profile, client))
}

func (r *Recorder) LoggedIn(_ context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	r.add(NewEvent(EventLogin, user, profile, client))
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}
