package services

import (
	"fmt"
	"math"

	"cabbie/internal/config"
	"cabbie/internal/models/response_models"
	"cabbie/pkg/utils"
)

type FareInput struct {
	ServiceType   string
	DistanceMiles float64
	WaitMinutes   int
	Passengers    int
	Luggage       int
}

type FareCalculatorInterface interface {
	Calculate(in FareInput) (response_models.FareBreakdown, error)
	Tariff() config.Tariff
}

type FareCalculator struct {
	tariff config.Tariff
}

func NewFareCalculator(tariff config.Tariff) (*FareCalculator, error) {
	if err := tariff.Validate(); err != nil {
		return nil, err
	}
	return &FareCalculator{tariff: tariff}, nil
}

func (f *FareCalculator) Tariff() config.Tariff { return f.tariff }

// Calculate prices one journey: the whole distance is billed at the rate of
// the first tier that covers it, floored at the minimum fare, plus waiting time.
func (f *FareCalculator) Calculate(in FareInput) (response_models.FareBreakdown, error) {
	svc, ok := f.tariff.Services[in.ServiceType]
	if !ok {
		return response_models.FareBreakdown{}, fmt.Errorf("%w: %q", utils.ErrInvalidServiceType, in.ServiceType)
	}
	if math.IsNaN(in.DistanceMiles) || math.IsInf(in.DistanceMiles, 0) || in.DistanceMiles < 0 {
		return response_models.FareBreakdown{}, utils.ErrInvalidDistance
	}
	if in.WaitMinutes < 0 || in.Passengers < 1 || in.Luggage < 0 {
		return response_models.FareBreakdown{}, utils.ErrInvalidInput
	}
	if in.Passengers > svc.MaxPassengers {
		return response_models.FareBreakdown{}, fmt.Errorf("%w: %d > %d", utils.ErrTooManyPassengers, in.Passengers, svc.MaxPassengers)
	}
	if svc.MaxLuggage > 0 && in.Luggage > svc.MaxLuggage {
		return response_models.FareBreakdown{}, fmt.Errorf("%w: luggage %d > %d", utils.ErrInvalidInput, in.Luggage, svc.MaxLuggage)
	}

	rate := tierRate(svc.Tiers, in.DistanceMiles)
	distanceCharge := roundMinor(in.DistanceMiles * float64(rate))

	total := distanceCharge
	minimumApplied := false
	if total < svc.MinimumFare {
		total = svc.MinimumFare
		minimumApplied = distanceCharge < svc.MinimumFare
	}
	waitCharge := int64(in.WaitMinutes) * svc.WaitPerMinute
	total += waitCharge

	return response_models.FareBreakdown{
		ServiceType:    in.ServiceType,
		DistanceMiles:  math.Round(in.DistanceMiles*100) / 100,
		PerMileRate:    rate,
		DistanceCharge: distanceCharge,
		MinimumFare:    svc.MinimumFare,
		MinimumApplied: minimumApplied,
		WaitMinutes:    in.WaitMinutes,
		WaitCharge:     waitCharge,
		Total:          total,
	}, nil
}

func tierRate(tiers []config.FareTier, miles float64) int64 {
	for _, t := range tiers {
		if t.UpToMiles == 0 || miles <= t.UpToMiles {
			return t.PerMile
		}
	}
	return tiers[len(tiers)-1].PerMile
}

// roundMinor rounds half away from zero to whole minor units.
func roundMinor(v float64) int64 {
	return int64(math.Round(v))
}
