package app

import (
	"context"
	"errors"

	"connect-service/internal/config"
	"connect-service/internal/db"
	"connect-service/internal/logger"
	"connect-service/internal/redis"
	"connect-service/internal/session"
)

type Infra struct {
	DB    *db.DB
	Redis *redis.Client

	Sessions session.Store
	Pending  session.PendingStore
}

// OpenDB opens the configured database and applies migrations.
func OpenDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	d, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, d); err != nil {
		_ = d.Close()
		return nil, err
	}

	logger.Info("database ready", map[string]any{"driver": d.Driver()})
	return d, nil
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	d, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	infra := &Infra{DB: d}

	switch cfg.SessionBackend {
	case "memory":
		infra.Sessions, infra.Pending = memoryStores()
		logger.Warn("using in-memory session store", nil)

	default:
		client, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = d.Close()
			return nil, err
		}
		infra.Redis = client
		infra.Sessions = session.NewRedisStore(client.Client)
		infra.Pending = session.NewRedisPendingStore(client.Client)
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	if cfg.EventsChannel != "" && infra.Redis == nil {
		logger.Warn("EVENTS_CHANNEL ignored without the redis session backend", nil)
	}

	return infra, nil
}

func memoryStores() (session.Store, session.PendingStore) {
	return session.NewMemoryStore(), session.NewMemoryPendingStore()
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	errs = append(errs, i.DB.Close())
	return errors.Join(errs...)
}
