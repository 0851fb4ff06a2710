package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbm "cabbie/internal/models/db_models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestFindOpenByHash(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentSessionRepository(db)
	id := uuid.New()
	now := time.Unix(1_700_000_000, 0)

	mock.ExpectQuery(`SELECT \* FROM "payment_sessions" WHERE .*content_hash = \$1.*ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "content_hash", "status", "amount_minor", "currency", "expires_at", "payment_intent_id"}).
			AddRow(id.String(), "abc", "open", 2500, "GBP", now.Add(time.Minute).Unix(), "pi_123"))

	session, err := repo.FindOpenByHash(context.Background(), "abc", now)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, id, session.ID)
	assert.Equal(t, dbm.SessionStatusOpen, session.Status)
	assert.Equal(t, "pi_123", session.PaymentIntentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindOpenByHashMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentSessionRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "payment_sessions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	session, err := repo.FindOpenByHash(context.Background(), "abc", time.Now())
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpireStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentSessionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payment_sessions" SET .*"status"=`).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.ExpireStale(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithBookingIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentSessionRepository(db)
	sessionID := uuid.New()
	existing := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "payment_sessions" WHERE .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "booking_id"}).
			AddRow(sessionID.String(), "completed", existing.String()))
	mock.ExpectCommit()

	bookingID, created, err := repo.CompleteWithBooking(context.Background(), sessionID, &dbm.Booking{})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existing, bookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingUpdateStatusStale(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings" SET .*"status"=`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.UpdateStatus(context.Background(), uuid.New(), dbm.BookingStatusPending, dbm.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrStaleStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE email = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(id.String(), "Rider", "rider@example.com", "user"))

	account, err := repo.FindByEmail(context.Background(), "rider@example.com")
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "Rider", account.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
