package places_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"cabbie/internal/config"
	"cabbie/internal/services"
)

var Module = fx.Provide(
	providePlacesService,
	provideFareCalculator,
	provideQuoteService,
	services.NewCatalogService,
)

func providePlacesService(cfg *config.Config, log *zap.Logger) (services.PlacesServiceInterface, error) {
	client, err := services.NewGoogleMapsClient(cfg.Maps.APIKey)
	if err != nil {
		return nil, err
	}
	return services.NewPlacesService(client, services.NewInMemoryPairCache(), cfg.Maps.Country, cfg.Maps.RouteTTL, log.Named("places")), nil
}

func provideFareCalculator(cfg *config.Config) (services.FareCalculatorInterface, error) {
	return services.NewFareCalculator(cfg.Tariff)
}

func provideQuoteService(
	places services.PlacesServiceInterface,
	fares services.FareCalculatorInterface,
	cache services.KVStore,
	cfg *config.Config,
	log *zap.Logger,
) services.QuoteServiceInterface {
	return services.NewQuoteService(places, fares, cache, cfg.Maps.QuoteTTL, log.Named("quote"))
}
