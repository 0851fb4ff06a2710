package db_models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCancelled, BookingStatusCancelled, false},
		{BookingStatusPending, BookingStatus("lost"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.False(t, BookingStatus("lost").Valid())
}

func TestBuildBookingResponseOrdersJourneys(t *testing.T) {
	out := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	back := out.Add(48 * time.Hour)
	owner := uuid.New()

	b := &Booking{
		BaseModel:  BaseModel{ID: uuid.New(), CreatedAt: out.Add(-time.Hour).Unix()},
		Reference:  "CB-ABC234",
		AccountID:  &owner,
		Status:     BookingStatusConfirmed,
		TotalMinor: 4250,
		Currency:   "GBP",
		Journeys: []Journey{
			{Leg: LegReturn, PickupAt: back, FareMinor: 2125},
			{Leg: LegOutbound, PickupAt: out, FareMinor: 2125},
		},
	}

	res := BuildBookingResponse(b)
	assert.Equal(t, "£42.50", res.Display)
	assert.Equal(t, "outbound", res.Journeys[0].Leg)
	assert.Equal(t, "return", res.Journeys[1].Leg)
	assert.Equal(t, out, b.FirstPickup())
	assert.True(t, b.OwnedBy(owner))
	assert.False(t, b.OwnedBy(uuid.New()))
	assert.Equal(t, LegReturn, b.Journeys[0].Leg, "input order must be left untouched")
}

func TestPaymentSessionExpired(t *testing.T) {
	now := time.Unix(1_000, 0)
	s := PaymentSession{ExpiresAt: 1_000}
	assert.True(t, s.Expired(now))
	s.ExpiresAt = 1_001
	assert.False(t, s.Expired(now))
}
