package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	if s.SessionID == "" || s.UserID == "" {
		return fmt.Errorf("session: missing session_id or user_id")
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(s.SessionID), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}

func (r *RedisStore) Update(ctx context.Context, s Session) error {
	if s.SessionID == "" {
		return fmt.Errorf("session: missing session_id")
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		// expired sessions are dropped instead of extended
		return r.client.Del(ctx, r.key(s.SessionID)).Err()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(s.SessionID), data, ttl).Err()
}

// RedisPendingStore stores pending social login state, one JSON value per
// browser under social:pending:<id>.
type RedisPendingStore struct {
	client *redis.Client
	prefix string
}

func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{
		client: client,
		prefix: "social:pending:",
	}
}

func (r *RedisPendingStore) Get(ctx context.Context, id string) (*Pending, error) {
	val, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Pending
	if err := json.Unmarshal(val, &p); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal pending: %w", err)
	}
	return &p, nil
}

func (r *RedisPendingStore) Save(ctx context.Context, id string, p *Pending, ttl time.Duration) error {
	if id == "" {
		return fmt.Errorf("session: missing pending id")
	}
	if ttl <= 0 {
		return fmt.Errorf("session: pending ttl must be positive")
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("session: failed to marshal pending: %w", err)
	}

	return r.client.Set(ctx, r.prefix+id, data, ttl).Err()
}

func (r *RedisPendingStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, r.prefix+id).Err()
}
