package db_models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo allows pending→confirmed, pending→cancelled and confirmed→cancelled.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed || next == BookingStatusCancelled
	case BookingStatusConfirmed:
		return next == BookingStatusCancelled
	}
	return false
}

type Booking struct {
	BaseModel
	Reference string     `gorm:"size:16;uniqueIndex"`
	AccountID *uuid.UUID `gorm:"type:char(36);index"`

	PassengerName  string `gorm:"size:100"`
	PassengerEmail string `gorm:"size:254;index"`
	PassengerPhone string `gorm:"size:32"`
	Passengers     int
	Luggage        int
	ServiceType    string        `gorm:"size:32"`
	Status         BookingStatus `gorm:"size:16;index"`
	Notes          string        `gorm:"size:1000"`

	TotalMinor int64
	Currency   string `gorm:"size:3"`

	PaymentIntentID  string     `gorm:"size:64;uniqueIndex"`
	PaymentSessionID *uuid.UUID `gorm:"type:char(36)"`
	RefundID         string     `gorm:"size:64"`
	CancelledAt      *int64

	Journeys []Journey `gorm:"constraint:OnDelete:CASCADE"`
}

// FirstPickup returns the earliest pickup time across the booking's journeys.
func (b *Booking) FirstPickup() time.Time {
	var first time.Time
	for _, j := range b.Journeys {
		if first.IsZero() || j.PickupAt.Before(first) {
			first = j.PickupAt
		}
	}
	return first
}

func (b *Booking) OwnedBy(accountID uuid.UUID) bool {
	return b.AccountID != nil && *b.AccountID == accountID
}
