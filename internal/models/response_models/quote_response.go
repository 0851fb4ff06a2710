package response_models

// FareBreakdown amounts are minor units.
type FareBreakdown struct {
	ServiceType    string  `json:"service_type"`
	DistanceMiles  float64 `json:"distance_miles"`
	PerMileRate    int64   `json:"per_mile_rate"`
	DistanceCharge int64   `json:"distance_charge"`
	MinimumFare    int64   `json:"minimum_fare"`
	MinimumApplied bool    `json:"minimum_applied"`
	WaitMinutes    int     `json:"wait_minutes"`
	WaitCharge     int64   `json:"wait_charge"`
	Total          int64   `json:"total"`
}

type JourneyQuote struct {
	Leg             string        `json:"leg"`
	PickupAddress   string        `json:"pickup_address"`
	DropoffAddress  string        `json:"dropoff_address"`
	PickupAt        string        `json:"pickup_at"`
	DistanceMiles   float64       `json:"distance_miles"`
	DurationMinutes int           `json:"duration_minutes"`
	Fare            FareBreakdown `json:"fare"`
}

type QuoteResponse struct {
	ServiceType string         `json:"service_type"`
	Passengers  int            `json:"passengers"`
	Journeys    []JourneyQuote `json:"journeys"`
	TotalMinor  int64          `json:"total"`
	Currency    string         `json:"currency"`
	Display     string         `json:"display"`
}

type ServiceTypeResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	MaxPassengers int    `json:"max_passengers"`
	MaxLuggage    int    `json:"max_luggage"`
	MinimumFare   int64  `json:"minimum_fare"`
	FromPerMile   int64  `json:"from_per_mile"`
	Currency      string `json:"currency"`
}

type PlacePrediction struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
	MainText    string `json:"main_text,omitempty"`
}

type PlaceDetails struct {
	PlaceID string  `json:"place_id"`
	Address string  `json:"address"`
	Name    string  `json:"name,omitempty"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}
