package notify

import (
	"context"
	"encoding/json"

	"connect-service/internal/auth"
	"connect-service/internal/logger"

	"github.com/redis/go-redis/v9"
)

// Redis publishes notifications as JSON on a pub/sub channel so other
// services can react to new connections and logins.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(client *redis.Client, channel string) *Redis {
	return &Redis{client: client, channel: channel}
}

func (r *Redis) Connected(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	r.publish(ctx, NewEvent(EventConnect, user, profile, client))
}

func (r *Redis) LoggedIn(ctx context.Context, user *auth.User, profile *auth.Profile, client *auth.ClientState) {
	r.publish(ctx, NewEvent(EventLogin, user, profile, client))
}

func (r *Redis) publish(ctx context.Context, e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		logger.Error("notify: marshal event", map[string]any{"error": err.Error()})
		return
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		logger.Error("notify: publish event", map[string]any{
			"channel": r.channel,
			"type":    e.Type,
			"error":   err.Error(),
		})
	}
}
