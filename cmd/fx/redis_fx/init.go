package redis_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cabbie/internal/config"
	"cabbie/internal/infra"
)

var Module = fx.Provide(provideRedis)

// provideRedis yields a nil client when REDIS_ADDR is empty.
func provideRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) *redis.Client {
	client := infra.NewRedisClient(cfg.Redis)
	if client == nil {
		log.Warn("REDIS_ADDR not set, drafts and quotes are kept in memory")
		return nil
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := infra.PingRedis(ctx, client); err != nil {
				return err
			}
			log.Info("redis connected", zap.String("addr", cfg.Redis.Address))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return infra.CloseRedis(client)
		},
	})
	return client
}
