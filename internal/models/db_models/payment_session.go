package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentSessionStatus string

const (
	SessionStatusOpen      PaymentSessionStatus = "open"
	SessionStatusCompleted PaymentSessionStatus = "completed"
	SessionStatusFailed    PaymentSessionStatus = "failed"
	SessionStatusExpired   PaymentSessionStatus = "expired"
)

// PaymentSession links a prepared booking to a payment intent until the
// provider reports the outcome. ContentHash identifies identical checkouts.
type PaymentSession struct {
	BaseModel
	ContentHash   string     `gorm:"size:64;index"`
	AccountID     *uuid.UUID `gorm:"type:char(36);index"`
	CustomerEmail string     `gorm:"size:254"`

	PaymentIntentID string `gorm:"size:64;uniqueIndex"`
	ClientSecret    string `gorm:"size:255"`
	AmountMinor     int64
	Currency        string               `gorm:"size:3"`
	Status          PaymentSessionStatus `gorm:"size:16;index"`

	// Snapshot of the priced booking draft the customer agreed to pay for.
	Payload datatypes.JSON

	BookingID   *uuid.UUID `gorm:"type:char(36)"`
	ExpiresAt   int64      `gorm:"index"`
	CompletedAt *int64
}

func (s *PaymentSession) Expired(now time.Time) bool {
	return now.Unix() >= s.ExpiresAt
}
