package checkout_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"cabbie/internal/config"
	"cabbie/internal/repositories"
	"cabbie/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		providePaymentGateway,
		provideSessionRepo,
		provideCheckoutService,
	),
	fx.Invoke(startSessionSweeper),
)

func providePaymentGateway(cfg *config.Config) (services.PaymentGateway, error) {
	return services.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
}

func provideSessionRepo(db *gorm.DB) repositories.PaymentSessionRepository {
	return repositories.NewPaymentSessionRepository(db)
}

func provideCheckoutService(
	sessions repositories.PaymentSessionRepository,
	bookings repositories.BookingRepository,
	quotes services.QuoteServiceInterface,
	gateway services.PaymentGateway,
	mailer services.IMailService,
	cfg *config.Config,
	log *zap.Logger,
) services.CheckoutServiceInterface {
	return services.NewCheckoutService(sessions, bookings, quotes, gateway, mailer, cfg.Booking.PaymentSessionTTL, log.Named("checkout"))
}

// startSessionSweeper marks unpaid sessions past their expiry on a fixed interval.
func startSessionSweeper(lc fx.Lifecycle, checkout services.CheckoutServiceInterface, cfg *config.Config, log *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				t := time.NewTicker(cfg.Booking.ExpirySweep)
				defer t.Stop()
				for {
					select {
					case <-t.C:
						n, err := checkout.ExpireStaleSessions(ctx)
						if err != nil {
							log.Error("expire payment sessions", zap.Error(err))
						} else if n > 0 {
							log.Info("expired payment sessions", zap.Int64("count", n))
						}
					case <-ctx.Done():
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
