package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	dbm "cabbie/internal/models/db_models"
	"cabbie/internal/models/request_models"
	"cabbie/internal/models/response_models"
	"cabbie/internal/repositories"
	"cabbie/pkg/metrics"
	"cabbie/pkg/utils"
)

// Requester is the authenticated caller of a booking operation.
type Requester struct {
	AccountID uuid.UUID
	Role      string
}

func (r Requester) IsAdmin() bool { return r.Role == dbm.RoleAdmin }

const maxExportRows = 10000

type BookingServiceInterface interface {
	GetBooking(ctx context.Context, r Requester, id uuid.UUID) (*response_models.BookingResponse, error)
	GetBookingByReference(ctx context.Context, reference, email string) (*response_models.BookingResponse, error)
	ListMyBookings(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*response_models.BookingPage, error)
	CancelBooking(ctx context.Context, r Requester, id uuid.UUID) (*response_models.BookingResponse, error)
	Receipt(ctx context.Context, r Requester, id uuid.UUID) ([]byte, string, error)

	ListBookings(ctx context.Context, filter request_models.BookingListFilter) (*response_models.BookingPage, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*response_models.BookingResponse, error)
	ExportBookings(ctx context.Context, filter request_models.BookingListFilter) ([]byte, error)
}

type bookingService struct {
	bookings repositories.BookingRepository
	gateway  PaymentGateway
	mailer   IMailService
	docs     DocumentServiceInterface
	window   time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings repositories.BookingRepository,
	gateway PaymentGateway,
	mailer IMailService,
	docs DocumentServiceInterface,
	cancellationWindow time.Duration,
	log *zap.Logger,
) BookingServiceInterface {
	return &bookingService{
		bookings: bookings,
		gateway:  gateway,
		mailer:   mailer,
		docs:     docs,
		window:   cancellationWindow,
		log:      log,
		now:      time.Now,
	}
}

func (s *bookingService) load(ctx context.Context, r Requester, id uuid.UUID) (*dbm.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		s.log.Error("find booking failed", zap.String("booking_id", id.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if b == nil {
		return nil, utils.ErrBookingNotFound
	}
	if !r.IsAdmin() && !b.OwnedBy(r.AccountID) {
		// do not reveal that the booking exists
		return nil, utils.ErrBookingNotFound
	}
	return b, nil
}

func (s *bookingService) GetBooking(ctx context.Context, r Requester, id uuid.UUID) (*response_models.BookingResponse, error) {
	b, err := s.load(ctx, r, id)
	if err != nil {
		return nil, err
	}
	res := dbm.BuildBookingResponse(b)
	return &res, nil
}

func (s *bookingService) GetBookingByReference(ctx context.Context, reference, email string) (*response_models.BookingResponse, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	email = strings.TrimSpace(email)
	if reference == "" || email == "" {
		return nil, utils.ErrInvalidInput
	}

	b, err := s.bookings.FindByReference(ctx, reference)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if b == nil || !strings.EqualFold(b.PassengerEmail, email) {
		return nil, utils.ErrBookingNotFound
	}
	res := dbm.BuildBookingResponse(b)
	return &res, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*response_models.BookingPage, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, utils.ErrInvalidPageSize
	}

	bookings, total, err := s.bookings.ListByAccount(ctx, accountID, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return buildPage(bookings, total, page, pageSize), nil
}

func buildPage(bookings []dbm.Booking, total int64, page, pageSize int) *response_models.BookingPage {
	out := &response_models.BookingPage{
		Items:    make([]response_models.BookingResponse, 0, len(bookings)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range bookings {
		out.Items = append(out.Items, dbm.BuildBookingResponse(&bookings[i]))
	}
	return out
}

// CancelBooking cancels on behalf of the owner or an admin. Customers may
// only cancel while the first pickup is further away than the cancellation
// window; admins are not bound by it.
func (s *bookingService) CancelBooking(ctx context.Context, r Requester, id uuid.UUID) (*response_models.BookingResponse, error) {
	b, err := s.load(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if !r.IsAdmin() && b.FirstPickup().Sub(s.now()) <= s.window {
		return nil, utils.ErrCancellationWindowPassed
	}
	return s.cancel(ctx, b)
}

func (s *bookingService) cancel(ctx context.Context, b *dbm.Booking) (*response_models.BookingResponse, error) {
	if !b.Status.CanTransitionTo(dbm.BookingStatusCancelled) {
		return nil, utils.ErrInvalidStatusTransition
	}

	var refundID string
	if b.Status == dbm.BookingStatusConfirmed && b.PaymentIntentID != "" {
		var err error
		refundID, err = s.gateway.Refund(ctx, b.PaymentIntentID)
		if err != nil {
			s.log.Error("refund failed", zap.String("reference", b.Reference), zap.Error(err))
			return nil, err
		}
	}

	now := s.now()
	if err := s.bookings.MarkCancelled(ctx, b.ID, refundID, now); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, utils.ErrInvalidStatusTransition
		}
		s.log.Error("mark booking cancelled failed", zap.String("reference", b.Reference), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	at := now.Unix()
	b.Status = dbm.BookingStatusCancelled
	b.RefundID = refundID
	b.CancelledAt = &at
	metrics.IncBookingStatus(string(dbm.BookingStatusCancelled))
	s.log.Info("booking cancelled", zap.String("reference", b.Reference), zap.String("refund_id", refundID))

	if err := s.mailer.SendBookingCancellation(ctx, b); err != nil {
		s.log.Warn("cancellation email not sent", zap.String("reference", b.Reference), zap.Error(err))
	}

	res := dbm.BuildBookingResponse(b)
	return &res, nil
}

func (s *bookingService) Receipt(ctx context.Context, r Requester, id uuid.UUID) ([]byte, string, error) {
	b, err := s.load(ctx, r, id)
	if err != nil {
		return nil, "", err
	}
	if b.Status == dbm.BookingStatusPending {
		return nil, "", fmt.Errorf("%w: booking is not paid", utils.ErrInvalidInput)
	}
	pdf, err := s.docs.Receipt(b)
	if err != nil {
		return nil, "", fmt.Errorf("render receipt: %w", err)
	}
	return pdf, b.Reference, nil
}

func toRepoFilter(f request_models.BookingListFilter) (repositories.BookingFilter, error) {
	out := repositories.BookingFilter{
		Status:   dbm.BookingStatus(f.Status),
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	if out.Page < 1 {
		return out, utils.ErrInvalidPage
	}
	if out.PageSize < 1 || out.PageSize > 100 {
		return out, utils.ErrInvalidPageSize
	}
	if f.From != "" {
		from, err := parseFilterDate(f.From)
		if err != nil {
			return out, err
		}
		out.From = &from
	}
	if f.To != "" {
		to, err := parseFilterDate(f.To)
		if err != nil {
			return out, err
		}
		// to is an inclusive calendar day
		to = to.AddDate(0, 0, 1)
		out.To = &to
	}
	return out, nil
}

// parseFilterDate accepts a YYYY-MM-DD day in UK local time.
func parseFilterDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, utils.LocalZone())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", utils.ErrInvalidInput, s)
	}
	return t, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter request_models.BookingListFilter) (*response_models.BookingPage, error) {
	f, err := toRepoFilter(filter)
	if err != nil {
		return nil, err
	}
	bookings, total, err := s.bookings.List(ctx, f)
	if err != nil {
		s.log.Error("list bookings failed", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	return buildPage(bookings, total, f.Page, f.PageSize), nil
}

// UpdateStatus is the admin override. Cancelling goes through the same
// refund and notification path as a customer cancellation.
func (s *bookingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*response_models.BookingResponse, error) {
	next := dbm.BookingStatus(status)
	if !next.Valid() {
		return nil, utils.ErrInvalidInput
	}

	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if b == nil {
		return nil, utils.ErrBookingNotFound
	}
	if next == dbm.BookingStatusCancelled {
		return s.cancel(ctx, b)
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, utils.ErrInvalidStatusTransition
	}

	if err := s.bookings.UpdateStatus(ctx, id, b.Status, next); err != nil {
		if errors.Is(err, repositories.ErrStaleStatus) {
			return nil, utils.ErrInvalidStatusTransition
		}
		return nil, utils.ErrDatabaseError
	}
	b.Status = next
	metrics.IncBookingStatus(string(next))

	res := dbm.BuildBookingResponse(b)
	return &res, nil
}

func (s *bookingService) ExportBookings(ctx context.Context, filter request_models.BookingListFilter) ([]byte, error) {
	filter.Page, filter.PageSize = 1, 100
	f, err := toRepoFilter(filter)
	if err != nil {
		return nil, err
	}

	var all []dbm.Booking
	for len(all) < maxExportRows {
		batch, total, err := s.bookings.List(ctx, f)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		all = append(all, batch...)
		if len(batch) < f.PageSize || int64(len(all)) >= total {
			break
		}
		f.Page++
	}
	return s.docs.BookingsWorkbook(all)
}
