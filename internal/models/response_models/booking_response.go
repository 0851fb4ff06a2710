package response_models

type JourneyResponse struct {
	ID              string  `json:"id"`
	Leg             string  `json:"leg"`
	PickupAddress   string  `json:"pickup_address"`
	DropoffAddress  string  `json:"dropoff_address"`
	PickupAt        string  `json:"pickup_at"`
	DistanceMiles   float64 `json:"distance_miles"`
	DurationMinutes int     `json:"duration_minutes"`
	WaitMinutes     int     `json:"wait_minutes"`
	FareMinor       int64   `json:"fare"`
	FlightNumber    string  `json:"flight_number,omitempty"`
}

type BookingResponse struct {
	ID             string            `json:"id"`
	Reference      string            `json:"reference"`
	Status         string            `json:"status"`
	ServiceType    string            `json:"service_type"`
	PassengerName  string            `json:"passenger_name"`
	PassengerEmail string            `json:"passenger_email"`
	PassengerPhone string            `json:"passenger_phone"`
	Passengers     int               `json:"passengers"`
	Luggage        int               `json:"luggage"`
	Notes          string            `json:"notes,omitempty"`
	TotalMinor     int64             `json:"total"`
	Currency       string            `json:"currency"`
	Display        string            `json:"display"`
	CreatedAt      string            `json:"created_at"`
	CancelledAt    string            `json:"cancelled_at,omitempty"`
	Journeys       []JourneyResponse `json:"journeys"`
}

type BookingPage struct {
	Items    []BookingResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type CheckoutSessionResponse struct {
	SessionID    string `json:"session_id"`
	ClientSecret string `json:"client_secret"`
	AmountMinor  int64  `json:"amount"`
	Currency     string `json:"currency"`
	ExpiresAt    string `json:"expires_at"`
	Reused       bool   `json:"reused"`
}

type CheckoutStatusResponse struct {
	SessionID        string `json:"session_id"`
	Status           string `json:"status"`
	BookingID        string `json:"booking_id,omitempty"`
	BookingReference string `json:"booking_reference,omitempty"`
}
