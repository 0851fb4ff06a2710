package db_models

import (
	"time"

	"github.com/google/uuid"
)

type JourneyLeg string

const (
	LegOutbound JourneyLeg = "outbound"
	LegReturn   JourneyLeg = "return"
)

// Journey is one leg of a booking.
type Journey struct {
	BaseModel
	BookingID uuid.UUID  `gorm:"type:char(36);index"`
	Leg       JourneyLeg `gorm:"size:16"`

	PickupAddress  string `gorm:"size:255"`
	PickupPlaceID  string `gorm:"size:255"`
	PickupLat      float64
	PickupLng      float64
	DropoffAddress string `gorm:"size:255"`
	DropoffPlaceID string `gorm:"size:255"`
	DropoffLat     float64
	DropoffLng     float64

	PickupAt        time.Time `gorm:"index"`
	DistanceMiles   float64
	DurationMinutes int
	WaitMinutes     int
	FareMinor       int64
	FlightNumber    string `gorm:"size:16"`
}
