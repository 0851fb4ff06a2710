package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "cabbie/internal/models/db_models"
)

type BookingFilter struct {
	Status   dbm.BookingStatus
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

type BookingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.Booking, error)
	FindByReference(ctx context.Context, reference string) (*dbm.Booking, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*dbm.Booking, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]dbm.Booking, int64, error)
	List(ctx context.Context, filter BookingFilter) ([]dbm.Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to dbm.BookingStatus) error
	MarkCancelled(ctx context.Context, id uuid.UUID, refundID string, at time.Time) error
}

// ErrStaleStatus is returned when a conditional status update matched no row.
var ErrStaleStatus = errors.New("booking status changed concurrently")

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) first(ctx context.Context, query string, args ...interface{}) (*dbm.Booking, error) {
	var booking dbm.Booking
	err := r.db.WithContext(ctx).
		Preload("Journeys", func(db *gorm.DB) *gorm.DB { return db.Order("pickup_at ASC") }).
		Where(query, args...).
		First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.Booking, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*dbm.Booking, error) {
	return r.first(ctx, "reference = ?", reference)
}

func (r *bookingRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*dbm.Booking, error) {
	return r.first(ctx, "payment_intent_id = ?", intentID)
}

func (r *bookingRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, page, pageSize int) ([]dbm.Booking, int64, error) {
	return r.paged(ctx, r.db.WithContext(ctx).Model(&dbm.Booking{}).Where("account_id = ?", accountID), page, pageSize)
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter) ([]dbm.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&dbm.Booking{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil || filter.To != nil {
		sub := r.db.Model(&dbm.Journey{}).Select("booking_id")
		if filter.From != nil {
			sub = sub.Where("pickup_at >= ?", *filter.From)
		}
		if filter.To != nil {
			sub = sub.Where("pickup_at < ?", *filter.To)
		}
		q = q.Where("id IN (?)", sub)
	}
	return r.paged(ctx, q, filter.Page, filter.PageSize)
}

func (r *bookingRepository) paged(ctx context.Context, q *gorm.DB, page, pageSize int) ([]dbm.Booking, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []dbm.Booking
	err := q.
		Preload("Journeys", func(db *gorm.DB) *gorm.DB { return db.Order("pickup_at ASC") }).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateStatus moves a booking from one status to another only if it is still in from.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to dbm.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.Booking{}).
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

func (r *bookingRepository) MarkCancelled(ctx context.Context, id uuid.UUID, refundID string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&dbm.Booking{}).
		Where("id = ? AND status <> ?", id, dbm.BookingStatusCancelled).
		Updates(map[string]interface{}{
			"status":       dbm.BookingStatusCancelled,
			"refund_id":    refundID,
			"cancelled_at": at.Unix(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
