package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "cabbie/internal/models/db_models"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *dbm.PaymentSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.PaymentSession, error)
	FindByIntentID(ctx context.Context, intentID string) (*dbm.PaymentSession, error)
	FindOpenByHash(ctx context.Context, hash string, now time.Time) (*dbm.PaymentSession, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to dbm.PaymentSessionStatus) error
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	// CompleteWithBooking creates booking and marks the session completed in
	// one transaction. If the session was already completed it returns the
	// existing booking id and created=false.
	CompleteWithBooking(ctx context.Context, sessionID uuid.UUID, booking *dbm.Booking) (bookingID uuid.UUID, created bool, err error)
}

type paymentSessionRepository struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) PaymentSessionRepository {
	return &paymentSessionRepository{db: db}
}

func (r *paymentSessionRepository) Create(ctx context.Context, session *dbm.PaymentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *paymentSessionRepository) first(ctx context.Context, query string, args ...interface{}) (*dbm.PaymentSession, error) {
	var session dbm.PaymentSession
	err := r.db.WithContext(ctx).Where(query, args...).Order("created_at DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *paymentSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.PaymentSession, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *paymentSessionRepository) FindByIntentID(ctx context.Context, intentID string) (*dbm.PaymentSession, error) {
	return r.first(ctx, "payment_intent_id = ?", intentID)
}

func (r *paymentSessionRepository) FindOpenByHash(ctx context.Context, hash string, now time.Time) (*dbm.PaymentSession, error) {
	return r.first(ctx, "content_hash = ? AND status = ? AND expires_at > ?", hash, dbm.SessionStatusOpen, now.Unix())
}

func (r *paymentSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to dbm.PaymentSessionStatus) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.PaymentSession{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *paymentSessionRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&dbm.PaymentSession{}).
		Where("status = ? AND expires_at <= ?", dbm.SessionStatusOpen, now.Unix()).
		Update("status", dbm.SessionStatusExpired)
	return res.RowsAffected, res.Error
}

func (r *paymentSessionRepository) CompleteWithBooking(ctx context.Context, sessionID uuid.UUID, booking *dbm.Booking) (uuid.UUID, bool, error) {
	var bookingID uuid.UUID
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session dbm.PaymentSession
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", sessionID).
			First(&session).Error; err != nil {
			return err
		}

		if session.Status == dbm.SessionStatusCompleted && session.BookingID != nil {
			bookingID = *session.BookingID
			return nil
		}

		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		now := time.Now().Unix()
		if err := tx.Model(&session).Updates(map[string]interface{}{
			"status":       dbm.SessionStatusCompleted,
			"booking_id":   booking.ID,
			"completed_at": now,
		}).Error; err != nil {
			return err
		}

		bookingID = booking.ID
		created = true
		return nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return bookingID, created, nil
}
