package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"cabbie/internal/models/response_models"
	"cabbie/pkg/utils"
)

const metersPerMile = 1609.344

type RouteInfo struct {
	DistanceMeters  int
	DurationSeconds int
}

func (r RouteInfo) Miles() float64 { return float64(r.DistanceMeters) / metersPerMile }

func (r RouteInfo) Minutes() int { return (r.DurationSeconds + 59) / 60 }

// --------- In-memory cache per (origin, destination) pair ---------

type pairKey struct {
	Mode string
	A    string
	B    string
}

type routePairCacheEntry struct {
	Route     RouteInfo
	ExpiresAt time.Time
}

type RoutePairCache interface {
	Get(k pairKey) (RouteInfo, bool)
	Set(k pairKey, v RouteInfo, ttl time.Duration)
}

// Expired entries are dropped on read, and all of them at most once per
// pairCacheSweepEvery on write.
type inMemoryPairCache struct {
	mu        sync.RWMutex
	store     map[pairKey]routePairCacheEntry
	lastSweep time.Time
	now       func() time.Time
}

const pairCacheSweepEvery = 10 * time.Minute

func NewInMemoryPairCache() RoutePairCache {
	return &inMemoryPairCache{
		store:     make(map[pairKey]routePairCacheEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (c *inMemoryPairCache) Get(k pairKey) (RouteInfo, bool) {
	c.mu.RLock()
	it, ok := c.store[k]
	c.mu.RUnlock()
	if !ok {
		return RouteInfo{}, false
	}
	if c.now().After(it.ExpiresAt) {
		c.mu.Lock()
		if cur, still := c.store[k]; still && c.now().After(cur.ExpiresAt) {
			delete(c.store, k)
		}
		c.mu.Unlock()
		return RouteInfo{}, false
	}
	return it.Route, true
}

func (c *inMemoryPairCache) Set(k pairKey, v RouteInfo, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if now.Sub(c.lastSweep) >= pairCacheSweepEvery {
		for key, it := range c.store {
			if now.After(it.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.lastSweep = now
	}
	c.store[k] = routePairCacheEntry{Route: v, ExpiresAt: now.Add(ttl)}
}

// -------------- Google Maps client ---------------

// MapsAPI is the subset of *maps.Client the service uses.
type MapsAPI interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

type PlacesServiceInterface interface {
	Autocomplete(ctx context.Context, input, sessionToken string) ([]response_models.PlacePrediction, error)
	Details(ctx context.Context, placeID, sessionToken string) (*response_models.PlaceDetails, error)
	Route(ctx context.Context, origin, destination string) (RouteInfo, error)
}

type PlacesService struct {
	api      MapsAPI
	cache    RoutePairCache
	country  string
	routeTTL time.Duration
	log      *zap.Logger
}

func NewPlacesService(api MapsAPI, cache RoutePairCache, country string, routeTTL time.Duration, log *zap.Logger) *PlacesService {
	if routeTTL <= 0 {
		routeTTL = 7 * 24 * time.Hour
	}
	return &PlacesService{
		api:      api,
		cache:    cache,
		country:  country,
		routeTTL: routeTTL,
		log:      log,
	}
}

// NewGoogleMapsClient wraps maps.NewClient; the key is required.
func NewGoogleMapsClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_MAPS_API_KEY is empty")
	}
	return maps.NewClient(maps.WithAPIKey(apiKey))
}

func sessionTokenOf(s string) (maps.PlaceAutocompleteSessionToken, bool) {
	u, err := uuid.Parse(s)
	if err != nil {
		return maps.PlaceAutocompleteSessionToken{}, false
	}
	return maps.PlaceAutocompleteSessionToken(u), true
}

func (p *PlacesService) Autocomplete(ctx context.Context, input, sessionToken string) ([]response_models.PlacePrediction, error) {
	input = strings.TrimSpace(input)
	if len([]rune(input)) < 3 {
		return []response_models.PlacePrediction{}, nil
	}

	req := &maps.PlaceAutocompleteRequest{Input: input}
	if p.country != "" {
		req.Components = map[maps.Component][]string{maps.ComponentCountry: {p.country}}
	}
	if tok, ok := sessionTokenOf(sessionToken); ok {
		req.SessionToken = tok
	}

	res, err := p.api.PlaceAutocomplete(ctx, req)
	if err != nil {
		p.log.Warn("places autocomplete failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrMapsProvider, err)
	}

	out := make([]response_models.PlacePrediction, 0, len(res.Predictions))
	for _, pred := range res.Predictions {
		out = append(out, response_models.PlacePrediction{
			PlaceID:     pred.PlaceID,
			Description: pred.Description,
			MainText:    pred.StructuredFormatting.MainText,
		})
	}
	return out, nil
}

func (p *PlacesService) Details(ctx context.Context, placeID, sessionToken string) (*response_models.PlaceDetails, error) {
	if strings.TrimSpace(placeID) == "" {
		return nil, utils.ErrInvalidInput
	}

	req := &maps.PlaceDetailsRequest{PlaceID: placeID}
	if tok, ok := sessionTokenOf(sessionToken); ok {
		req.SessionToken = tok
	}

	res, err := p.api.PlaceDetails(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "NOT_FOUND") || strings.Contains(err.Error(), "INVALID_REQUEST") {
			return nil, utils.ErrPlaceNotFound
		}
		p.log.Warn("place details failed", zap.String("place_id", placeID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrMapsProvider, err)
	}

	return &response_models.PlaceDetails{
		PlaceID: res.PlaceID,
		Address: res.FormattedAddress,
		Name:    res.Name,
		Lat:     res.Geometry.Location.Lat,
		Lng:     res.Geometry.Location.Lng,
	}, nil
}

// Route returns the driving distance and duration between two locations,
// given as addresses or "place_id:<id>" keys.
func (p *PlacesService) Route(ctx context.Context, origin, destination string) (RouteInfo, error) {
	if origin == "" || destination == "" {
		return RouteInfo{}, utils.ErrInvalidInput
	}

	k := pairKey{Mode: string(maps.TravelModeDriving), A: origin, B: destination}
	if v, ok := p.cache.Get(k); ok {
		return v, nil
	}

	resp, err := p.api.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Units:        maps.UnitsImperial,
	})
	if err != nil {
		p.log.Warn("distance matrix failed", zap.Error(err))
		return RouteInfo{}, fmt.Errorf("%w: %v", utils.ErrMapsProvider, err)
	}

	if resp == nil || len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 || resp.Rows[0].Elements[0] == nil {
		return RouteInfo{}, utils.ErrRouteNotFound
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" {
		return RouteInfo{}, fmt.Errorf("%w: %s", utils.ErrRouteNotFound, el.Status)
	}

	route := RouteInfo{
		DistanceMeters:  el.Distance.Meters,
		DurationSeconds: int(el.Duration.Seconds()),
	}
	p.cache.Set(k, route, p.routeTTL)
	return route, nil
}
