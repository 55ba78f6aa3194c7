package notify

import (
	"context"

	"connect-service/internal/auth"
	"connect-service/internal/logger"
	"connect-service/internal/metrics"
)

// Log writes notifications to the service log and counts them.
type Log struct{}

func (Log) Connected(_ context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	emit(NewEvent(EventConnect, user, profile, client))
}

func (Log) LoggedIn(_ context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	emit(NewEvent(EventLogin, user, profile, client))
}

func emit(e Event) {
	metrics.Events.WithLabelValues(e.Type, e.Provider).Inc()
	logger.Info("social "+e.Type, map[string]any{
		"user_id":    e.UserID,
		"profile_id": e.ProfileID,
		"provider":   e.Provider,
	})
}
