package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"cabbie/pkg/utils"
)

func newTestPlaces(api MapsAPI) *PlacesService {
	return NewPlacesService(api, NewInMemoryPairCache(), "gb", time.Hour, zap.NewNop())
}

func TestAutocompleteShortInputSkipsProvider(t *testing.T) {
	api := &fakeMaps{}
	svc := newTestPlaces(api)

	got, err := svc.Autocomplete(context.Background(), " ab ", "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Nil(t, api.lastAuto)
}

func TestAutocompleteMapsPredictions(t *testing.T) {
	api := &fakeMaps{predictions: []maps.AutocompletePrediction{
		{PlaceID: "p1", Description: "Heathrow Airport, London", StructuredFormatting: maps.AutocompleteStructuredFormatting{MainText: "Heathrow Airport"}},
	}}
	svc := newTestPlaces(api)
	token := uuid.NewString()

	got, err := svc.Autocomplete(context.Background(), "heathrow", token)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].PlaceID)
	assert.Equal(t, "Heathrow Airport", got[0].MainText)

	require.NotNil(t, api.lastAuto)
	assert.Equal(t, []string{"gb"}, api.lastAuto.Components[maps.ComponentCountry])
	assert.Equal(t, token, uuid.UUID(api.lastAuto.SessionToken).String())
}

func TestAutocompleteProviderError(t *testing.T) {
	svc := newTestPlaces(&fakeMaps{err: errors.New("quota")})
	_, err := svc.Autocomplete(context.Background(), "kings cross", "")
	assert.ErrorIs(t, err, utils.ErrMapsProvider)
}

func TestDetails(t *testing.T) {
	api := &fakeMaps{details: maps.PlaceDetailsResult{
		PlaceID:          "p1",
		Name:             "Gatwick",
		FormattedAddress: "Horley, Gatwick RH6 0NP, UK",
		Geometry:         maps.AddressGeometry{Location: maps.LatLng{Lat: 51.15, Lng: -0.18}},
	}}
	svc := newTestPlaces(api)

	got, err := svc.Details(context.Background(), "p1", "")
	require.NoError(t, err)
	assert.Equal(t, "Horley, Gatwick RH6 0NP, UK", got.Address)
	assert.InDelta(t, 51.15, got.Lat, 1e-9)

	_, err = svc.Details(context.Background(), " ", "")
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestDetailsNotFound(t *testing.T) {
	svc := newTestPlaces(&fakeMaps{err: errors.New("maps: NOT_FOUND - ")})
	_, err := svc.Details(context.Background(), "nope", "")
	assert.ErrorIs(t, err, utils.ErrPlaceNotFound)
}

func TestRouteIsCachedPerPair(t *testing.T) {
	api := &fakeMaps{meters: 6437, seconds: 14*time.Minute + 10*time.Second}
	svc := newTestPlaces(api)
	ctx := context.Background()

	r1, err := svc.Route(ctx, "place_id:a", "place_id:b")
	require.NoError(t, err)
	r2, err := svc.Route(ctx, "place_id:a", "place_id:b")
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, api.matrixCalls)
	assert.InDelta(t, 4.0, r1.Miles(), 0.01)
	assert.Equal(t, 15, r1.Minutes())

	_, err = svc.Route(ctx, "place_id:b", "place_id:a")
	require.NoError(t, err)
	assert.Equal(t, 2, api.matrixCalls)
}

func TestRouteNotFound(t *testing.T) {
	svc := newTestPlaces(&fakeMaps{elementStatus: "ZERO_RESULTS"})
	_, err := svc.Route(context.Background(), "Atlantis", "London")
	assert.ErrorIs(t, err, utils.ErrRouteNotFound)
}

func TestPairCacheDropsExpiredEntries(t *testing.T) {
	now := time.Now()
	c := NewInMemoryPairCache().(*inMemoryPairCache)
	c.now = func() time.Time { return now }

	read := pairKey{Mode: "driving", A: "a", B: "b"}
	unread := pairKey{Mode: "driving", A: "c", B: "d"}
	c.Set(read, RouteInfo{DistanceMeters: 1000}, time.Minute)
	c.Set(unread, RouteInfo{DistanceMeters: 2000}, time.Minute)

	got, ok := c.Get(read)
	require.True(t, ok)
	assert.Equal(t, 1000, got.DistanceMeters)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(read)
	assert.False(t, ok)
	assert.Len(t, c.store, 1)

	now = now.Add(pairCacheSweepEvery)
	c.Set(pairKey{Mode: "driving", A: "e", B: "f"}, RouteInfo{}, time.Minute)
	assert.Len(t, c.store, 1)
	assert.NotContains(t, c.store, unread)
}
