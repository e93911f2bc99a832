// Package cache provides the optional Redis-backed report cache. When no
// Redis address is configured the client is nil and callers skip caching.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/nusatel/simfleet/pkg/config"
)

// NewRedis returns a connected client, or nil when caching is disabled. A
// Redis that is configured but unreachable fails startup rather than silently
// degrading.
func NewRedis(cfg *config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Infow("redis connected", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)
	return client, nil
}

func registerRedisClose(lc fx.Lifecycle, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewRedis),
	fx.Invoke(registerRedisClose),
)
