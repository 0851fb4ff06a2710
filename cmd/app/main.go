package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"cabbie/cmd/fx/account_fx"
	"cabbie/cmd/fx/booking_fx"
	"cabbie/cmd/fx/checkout_fx"
	"cabbie/cmd/fx/config_fx"
	"cabbie/cmd/fx/controllers_fx"
	"cabbie/cmd/fx/db_fx"
	"cabbie/cmd/fx/mail_fx"
	"cabbie/cmd/fx/memcache_fx"
	"cabbie/cmd/fx/places_fx"
	"cabbie/cmd/fx/redis_fx"
	"cabbie/cmd/fx/wizard_fx"
	"cabbie/internal/config"
	"cabbie/pkg/metrics"
)

func main() {
	metrics.Register()

	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		config_fx.Module,
		db_fx.Module,
		redis_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		places_fx.Module,
		wizard_fx.Module,
		booking_fx.Module,
		checkout_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
