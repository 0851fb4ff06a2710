package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Tariff prices every bookable service type. Amounts are minor units.
type Tariff struct {
	Currency string                   `yaml:"currency"`
	Services map[string]ServiceTariff `yaml:"services"`
}

type ServiceTariff struct {
	DisplayName   string     `yaml:"display_name"`
	MinimumFare   int64      `yaml:"minimum_fare"`
	Tiers         []FareTier `yaml:"tiers"`
	WaitPerMinute int64      `yaml:"wait_per_minute"`
	MaxPassengers int        `yaml:"max_passengers"`
	MaxLuggage    int        `yaml:"max_luggage"`
}

// FareTier bills a whole journey at PerMile when its distance is at most
// UpToMiles. UpToMiles == 0 marks the open-ended last tier.
type FareTier struct {
	UpToMiles float64 `yaml:"up_to_miles"`
	PerMile   int64   `yaml:"per_mile"`
}

func DefaultTariff() Tariff {
	return Tariff{
		Currency: "GBP",
		Services: map[string]ServiceTariff{
			"standard": {
				DisplayName:   "Standard saloon",
				MinimumFare:   1000,
				Tiers:         []FareTier{{UpToMiles: 4, PerMile: 250}, {UpToMiles: 20, PerMile: 225}, {PerMile: 200}},
				WaitPerMinute: 30,
				MaxPassengers: 4,
				MaxLuggage:    2,
			},
			"executive": {
				DisplayName:   "Executive",
				MinimumFare:   1500,
				Tiers:         []FareTier{{UpToMiles: 4, PerMile: 350}, {UpToMiles: 20, PerMile: 325}, {PerMile: 300}},
				WaitPerMinute: 40,
				MaxPassengers: 4,
				MaxLuggage:    3,
			},
			"mpv": {
				DisplayName:   "MPV (up to 7)",
				MinimumFare:   1800,
				Tiers:         []FareTier{{UpToMiles: 4, PerMile: 375}, {UpToMiles: 20, PerMile: 350}, {PerMile: 325}},
				WaitPerMinute: 40,
				MaxPassengers: 7,
				MaxLuggage:    6,
			},
		},
	}
}

// LoadTariff returns the built-in tariff when path is empty, otherwise the
// YAML file at path with ${VAR} references expanded.
func LoadTariff(path string) (Tariff, error) {
	if path == "" {
		return DefaultTariff(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tariff{}, fmt.Errorf("read tariff: %w", err)
	}

	var t Tariff
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &t); err != nil {
		return Tariff{}, fmt.Errorf("parse tariff: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tariff{}, err
	}
	return t, nil
}

func (t Tariff) Validate() error {
	if len(t.Services) == 0 {
		return fmt.Errorf("tariff: no services defined")
	}
	for name, s := range t.Services {
		if len(s.Tiers) == 0 {
			return fmt.Errorf("tariff %s: at least one tier is required", name)
		}
		if s.MinimumFare < 0 || s.WaitPerMinute < 0 {
			return fmt.Errorf("tariff %s: negative amounts are not allowed", name)
		}
		if s.MaxPassengers < 1 {
			return fmt.Errorf("tariff %s: max_passengers must be at least 1", name)
		}
		last := len(s.Tiers) - 1
		for i, tier := range s.Tiers {
			if tier.PerMile < 0 {
				return fmt.Errorf("tariff %s: tier %d has a negative rate", name, i)
			}
			if i < last && tier.UpToMiles <= 0 {
				return fmt.Errorf("tariff %s: only the last tier may be open-ended", name)
			}
			if i > 0 && i < last && tier.UpToMiles <= s.Tiers[i-1].UpToMiles {
				return fmt.Errorf("tariff %s: tiers must be in ascending order", name)
			}
		}
		if s.Tiers[last].UpToMiles != 0 {
			return fmt.Errorf("tariff %s: last tier must be open-ended (up_to_miles: 0)", name)
		}
	}
	return nil
}

// ServiceNames returns the service type keys in a stable order.
func (t Tariff) ServiceNames() []string {
	names := make([]string, 0, len(t.Services))
	for name := range t.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
