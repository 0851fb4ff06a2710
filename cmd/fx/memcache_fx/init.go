package memcache_fx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"cabbie/internal/services"
	mem "cabbie/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideResetTokens, mem.NewTTLStore, provideKVStore),
	fx.Invoke(sweepTTLStore),
)

func provideResetTokens() mem.ResetTokenStore {
	return mem.NewResetTokens()
}

func provideKVStore(client *redis.Client, fallback *mem.TTLStore) services.KVStore {
	return services.NewKVStore(client, fallback)
}

// sweepTTLStore drops expired in-memory entries once a minute.
func sweepTTLStore(lc fx.Lifecycle, store *mem.TTLStore) {
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				t := time.NewTicker(time.Minute)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						store.Sweep()
					case <-stop:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			close(stop)
			return nil
		},
	})
}
