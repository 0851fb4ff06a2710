package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cabbie/internal/config"
	"cabbie/pkg/utils"
)

func newTestCalculator(t *testing.T) *FareCalculator {
	t.Helper()
	calc, err := NewFareCalculator(config.DefaultTariff())
	require.NoError(t, err)
	return calc
}

func TestFareCalculatorTiers(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		name        string
		service     string
		miles       float64
		wait        int
		wantRate    int64
		wantTotal   int64
		wantMinimum bool
	}{
		{"four miles standard hits minimum exactly", "standard", 4, 0, 250, 1000, false},
		{"short trip floored at minimum", "standard", 1.5, 0, 250, 1000, true},
		{"zero distance", "standard", 0, 0, 250, 1000, true},
		{"second tier bills whole distance", "standard", 10, 0, 225, 2250, false},
		{"tier boundary is inclusive", "standard", 20, 0, 225, 4500, false},
		{"open ended tier", "standard", 30, 0, 200, 6000, false},
		{"wait time added after minimum", "standard", 2, 10, 250, 1300, true},
		{"executive", "executive", 12.4, 5, 325, 4030 + 200, false},
		{"mpv minimum", "mpv", 3, 0, 375, 1800, true},
		{"just past a boundary moves to the next rate", "standard", 4.002, 0, 225, 1000, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Calculate(FareInput{
				ServiceType:   tc.service,
				DistanceMiles: tc.miles,
				WaitMinutes:   tc.wait,
				Passengers:    1,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.wantRate, got.PerMileRate)
			assert.Equal(t, tc.wantTotal, got.Total)
			assert.Equal(t, tc.wantMinimum, got.MinimumApplied)
		})
	}
}

func TestFareCalculatorWaitCharge(t *testing.T) {
	calc := newTestCalculator(t)
	got, err := calc.Calculate(FareInput{ServiceType: "standard", DistanceMiles: 8, WaitMinutes: 15, Passengers: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(1800), got.DistanceCharge)
	assert.Equal(t, int64(450), got.WaitCharge)
	assert.Equal(t, int64(2250), got.Total)
}

func TestFareCalculatorValidation(t *testing.T) {
	calc := newTestCalculator(t)

	cases := []struct {
		name string
		in   FareInput
		want error
	}{
		{"unknown service", FareInput{ServiceType: "limo", DistanceMiles: 3, Passengers: 1}, utils.ErrInvalidServiceType},
		{"negative distance", FareInput{ServiceType: "standard", DistanceMiles: -1, Passengers: 1}, utils.ErrInvalidDistance},
		{"nan distance", FareInput{ServiceType: "standard", DistanceMiles: math.NaN(), Passengers: 1}, utils.ErrInvalidDistance},
		{"negative wait", FareInput{ServiceType: "standard", DistanceMiles: 3, WaitMinutes: -5, Passengers: 1}, utils.ErrInvalidInput},
		{"no passengers", FareInput{ServiceType: "standard", DistanceMiles: 3}, utils.ErrInvalidInput},
		{"too many passengers", FareInput{ServiceType: "standard", DistanceMiles: 3, Passengers: 5}, utils.ErrTooManyPassengers},
		{"too much luggage", FareInput{ServiceType: "standard", DistanceMiles: 3, Passengers: 1, Luggage: 9}, utils.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Calculate(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestFareCalculatorMPVCarriesSeven(t *testing.T) {
	calc := newTestCalculator(t)
	_, err := calc.Calculate(FareInput{ServiceType: "mpv", DistanceMiles: 10, Passengers: 7})
	assert.NoError(t, err)
}

func TestNewFareCalculatorRejectsInvalidTariff(t *testing.T) {
	_, err := NewFareCalculator(config.Tariff{})
	assert.Error(t, err)
}
