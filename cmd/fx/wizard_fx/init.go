package wizard_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cabbie/internal/config"
	"cabbie/internal/services"
)

var Module = fx.Provide(provideWizardService)

func provideWizardService(store services.KVStore, quotes services.QuoteServiceInterface, cfg *config.Config, log *zap.Logger) services.WizardServiceInterface {
	return services.NewWizardService(store, quotes, cfg.Booking.DraftTTL, log.Named("wizard"))
}
