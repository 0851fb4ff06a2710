package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	dbm "cabbie/internal/models/db_models"
	"cabbie/internal/models/request_models"
	"cabbie/internal/models/response_models"
	"cabbie/pkg/metrics"
	"cabbie/pkg/utils"
)

type QuoteServiceInterface interface {
	Quote(ctx context.Context, ride request_models.RideDetails) (*response_models.QuoteResponse, error)
}

type QuoteService struct {
	places PlacesServiceInterface
	fares  FareCalculatorInterface
	cache  KVStore
	ttl    time.Duration
	log    *zap.Logger
}

func NewQuoteService(places PlacesServiceInterface, fares FareCalculatorInterface, cache KVStore, ttl time.Duration, log *zap.Logger) *QuoteService {
	return &QuoteService{
		places: places,
		fares:  fares,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

// Quote prices the outbound leg and, if present, the return leg. Identical
// requests are answered from the cache until the quote TTL lapses.
func (q *QuoteService) Quote(ctx context.Context, ride request_models.RideDetails) (*response_models.QuoteResponse, error) {
	hash, err := utils.ContentHash(ride)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}
	key := "quote:" + hash

	if cached := q.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	outRoute, err := q.places.Route(ctx, ride.Outbound.Pickup.RouteKey(), ride.Outbound.Dropoff.RouteKey())
	if err != nil {
		return nil, err
	}
	outbound, err := q.priceLeg(dbm.LegOutbound, ride, ride.Outbound, outRoute)
	if err != nil {
		return nil, err
	}

	res := &response_models.QuoteResponse{
		ServiceType: ride.ServiceType,
		Passengers:  ride.Passengers,
		Journeys:    []response_models.JourneyQuote{outbound},
		TotalMinor:  outbound.Fare.Total,
		Currency:    q.fares.Tariff().Currency,
	}

	if ride.Return != nil {
		retRoute := outRoute
		if !isReverseOf(*ride.Return, ride.Outbound) {
			retRoute, err = q.places.Route(ctx, ride.Return.Pickup.RouteKey(), ride.Return.Dropoff.RouteKey())
			if err != nil {
				return nil, err
			}
		}
		ret, err := q.priceLeg(dbm.LegReturn, ride, *ride.Return, retRoute)
		if err != nil {
			return nil, err
		}
		res.Journeys = append(res.Journeys, ret)
		res.TotalMinor += ret.Fare.Total
	}

	res.Display = utils.FormatMoney(res.TotalMinor, res.Currency)
	metrics.IncQuote(ride.ServiceType)

	if b, err := json.Marshal(res); err == nil {
		if err := q.cache.Set(ctx, key, b, q.ttl); err != nil {
			q.log.Warn("failed to cache quote", zap.Error(err))
		}
	}
	return res, nil
}

func (q *QuoteService) fromCache(ctx context.Context, key string) *response_models.QuoteResponse {
	b, err := q.cache.Get(ctx, key)
	if err != nil {
		q.log.Warn("quote cache read failed", zap.Error(err))
		return nil
	}
	if b == nil {
		return nil
	}
	var res response_models.QuoteResponse
	if err := json.Unmarshal(b, &res); err != nil {
		return nil
	}
	return &res
}

func (q *QuoteService) priceLeg(leg dbm.JourneyLeg, ride request_models.RideDetails, j request_models.JourneyRequest, route RouteInfo) (response_models.JourneyQuote, error) {
	fare, err := q.fares.Calculate(FareInput{
		ServiceType:   ride.ServiceType,
		DistanceMiles: route.Miles(),
		WaitMinutes:   j.WaitMinutes,
		Passengers:    ride.Passengers,
		Luggage:       ride.Luggage,
	})
	if err != nil {
		return response_models.JourneyQuote{}, err
	}

	return response_models.JourneyQuote{
		Leg:             string(leg),
		PickupAddress:   j.Pickup.Address,
		DropoffAddress:  j.Dropoff.Address,
		PickupAt:        utils.FormatRFC3339UK(j.PickupAt),
		DistanceMiles:   math.Round(route.Miles()*100) / 100,
		DurationMinutes: route.Minutes(),
		Fare:            fare,
	}, nil
}

func isReverseOf(ret, out request_models.JourneyRequest) bool {
	return ret.Pickup.RouteKey() == out.Dropoff.RouteKey() &&
		ret.Dropoff.RouteKey() == out.Pickup.RouteKey()
}

// ValidateRide checks what the binding tags cannot: pickup times relative to
// now and to each other.
func ValidateRide(ride request_models.RideDetails, now time.Time) error {
	if !ride.Outbound.PickupAt.After(now) {
		return utils.ErrPickupInPast
	}
	if ride.Return != nil {
		if !ride.Return.PickupAt.After(ride.Outbound.PickupAt) {
			return fmt.Errorf("%w: return pickup must be after outbound pickup", utils.ErrInvalidInput)
		}
	}
	return nil
}
