package request_models

import "time"

type Location struct {
	Address string  `json:"address" binding:"required,max=255"`
	PlaceID string  `json:"place_id" binding:"max=255"`
	Lat     float64 `json:"lat" binding:"gte=-90,lte=90"`
	Lng     float64 `json:"lng" binding:"gte=-180,lte=180"`
}

// RouteKey identifies the location for the maps provider, preferring the place id.
func (l Location) RouteKey() string {
	if l.PlaceID != "" {
		return "place_id:" + l.PlaceID
	}
	return l.Address
}

type JourneyRequest struct {
	Pickup       Location  `json:"pickup" binding:"required"`
	Dropoff      Location  `json:"dropoff" binding:"required"`
	PickupAt     time.Time `json:"pickup_at" binding:"required"`
	WaitMinutes  int       `json:"wait_minutes" binding:"gte=0,lte=240"`
	FlightNumber string    `json:"flight_number" binding:"max=16"`
}

// RideDetails is the first wizard step and the body of a quote request.
type RideDetails struct {
	ServiceType string          `json:"service_type" binding:"required"`
	Passengers  int             `json:"passengers" binding:"required,min=1,max=16"`
	Luggage     int             `json:"luggage" binding:"gte=0,lte=16"`
	Outbound    JourneyRequest  `json:"outbound" binding:"required"`
	Return      *JourneyRequest `json:"return,omitempty"`
}

type PassengerInfo struct {
	Name  string `json:"name" binding:"required,min=2,max=100"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,min=6,max=32"`
	Notes string `json:"notes" binding:"max=1000"`
}

type BookingDraft struct {
	Ride      RideDetails   `json:"ride" binding:"required"`
	Passenger PassengerInfo `json:"passenger" binding:"required"`
}

// CreateCheckoutRequest takes either a wizard draft id or a complete draft.
type CreateCheckoutRequest struct {
	DraftID string        `json:"draft_id"`
	Draft   *BookingDraft `json:"draft"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

type BookingListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	From     string `form:"from"`
	To       string `form:"to"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"pageSize,default=20" binding:"min=1,max=100"`
}
