package services

import (
	"context"
	"encoding/json"
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

type CheckoutServiceInterface interface {
	CreateSession(ctx context.Context, accountID *uuid.UUID, draft request_models.BookingDraft) (*response_models.CheckoutSessionResponse, error)
	GetSessionStatus(ctx context.Context, sessionID uuid.UUID) (*response_models.CheckoutStatusResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	ExpireStaleSessions(ctx context.Context) (int64, error)
}

// sessionPayload is the priced draft stored on the payment session and
// turned into a booking once payment succeeds.
type sessionPayload struct {
	Reference string                        `json:"reference"`
	AccountID string                        `json:"account_id,omitempty"`
	Ride      request_models.RideDetails    `json:"ride"`
	Passenger request_models.PassengerInfo  `json:"passenger"`
	Quote     response_models.QuoteResponse `json:"quote"`
}

// sessionFingerprint is hashed to recognise a repeated checkout of the same
// booking. Field order is fixed so the JSON encoding is canonical.
type sessionFingerprint struct {
	Customer    string           `json:"customer"`
	Email       string           `json:"email"`
	ServiceType string           `json:"service_type"`
	Passengers  int              `json:"passengers"`
	Luggage     int              `json:"luggage"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone"`
	Notes       string           `json:"notes"`
	Legs        []fingerprintLeg `json:"legs"`
	AmountMinor int64            `json:"amount"`
	Currency    string           `json:"currency"`
}

type fingerprintLeg struct {
	Pickup       string `json:"pickup"`
	Dropoff      string `json:"dropoff"`
	PickupAt     int64  `json:"pickup_at"`
	WaitMinutes  int    `json:"wait_minutes"`
	FlightNumber string `json:"flight_number"`
}

type checkoutService struct {
	sessions repositories.PaymentSessionRepository
	bookings repositories.BookingRepository
	quotes   QuoteServiceInterface
	gateway  PaymentGateway
	mailer   IMailService
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewCheckoutService(
	sessions repositories.PaymentSessionRepository,
	bookings repositories.BookingRepository,
	quotes QuoteServiceInterface,
	gateway PaymentGateway,
	mailer IMailService,
	ttl time.Duration,
	log *zap.Logger,
) CheckoutServiceInterface {
	return &checkoutService{
		sessions: sessions,
		bookings: bookings,
		quotes:   quotes,
		gateway:  gateway,
		mailer:   mailer,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
	}
}

func fingerprintOf(accountID *uuid.UUID, draft request_models.BookingDraft, amount int64, currency string) sessionFingerprint {
	email := strings.ToLower(strings.TrimSpace(draft.Passenger.Email))
	customer := email
	if accountID != nil {
		customer = accountID.String()
	}

	legs := []request_models.JourneyRequest{draft.Ride.Outbound}
	if draft.Ride.Return != nil {
		legs = append(legs, *draft.Ride.Return)
	}
	fp := sessionFingerprint{
		Customer:    customer,
		Email:       email,
		ServiceType: draft.Ride.ServiceType,
		Passengers:  draft.Ride.Passengers,
		Luggage:     draft.Ride.Luggage,
		Name:        strings.TrimSpace(draft.Passenger.Name),
		Phone:       strings.TrimSpace(draft.Passenger.Phone),
		Notes:       strings.TrimSpace(draft.Passenger.Notes),
		AmountMinor: amount,
		Currency:    currency,
	}
	for _, l := range legs {
		fp.Legs = append(fp.Legs, fingerprintLeg{
			Pickup:       l.Pickup.RouteKey(),
			Dropoff:      l.Dropoff.RouteKey(),
			PickupAt:     l.PickupAt.Unix(),
			WaitMinutes:  l.WaitMinutes,
			FlightNumber: strings.ToUpper(strings.TrimSpace(l.FlightNumber)),
		})
	}
	return fp
}

// CreateSession prices the draft server-side and returns a payment session.
// An open session for identical content is returned instead of opening a
// second payment intent.
func (c *checkoutService) CreateSession(ctx context.Context, accountID *uuid.UUID, draft request_models.BookingDraft) (*response_models.CheckoutSessionResponse, error) {
	now := c.now()
	if err := ValidateRide(draft.Ride, now); err != nil {
		return nil, err
	}

	quote, err := c.quotes.Quote(ctx, draft.Ride)
	if err != nil {
		return nil, err
	}
	if quote.TotalMinor <= 0 {
		return nil, fmt.Errorf("%w: non-positive total", utils.ErrInvalidInput)
	}

	hash, err := utils.ContentHash(fingerprintOf(accountID, draft, quote.TotalMinor, quote.Currency))
	if err != nil {
		return nil, fmt.Errorf("hash checkout: %w", err)
	}

	existing, err := c.sessions.FindOpenByHash(ctx, hash, now)
	if err != nil {
		c.log.Error("find open session failed", zap.Error(err))
		return nil, utils.ErrDatabaseError
	}
	if existing != nil {
		metrics.IncPaymentSession("reused")
		return sessionResponse(existing, true), nil
	}

	reference, err := utils.GenerateReference("CB", 6)
	if err != nil {
		return nil, fmt.Errorf("generate reference: %w", err)
	}
	payload := sessionPayload{
		Reference: reference,
		Ride:      draft.Ride,
		Passenger: draft.Passenger,
		Quote:     *quote,
	}
	if accountID != nil {
		payload.AccountID = accountID.String()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode session payload: %w", err)
	}

	sessionID := uuid.New()
	intent, err := c.gateway.CreateIntent(ctx, IntentRequest{
		AmountMinor:    quote.TotalMinor,
		Currency:       quote.Currency,
		ReceiptEmail:   draft.Passenger.Email,
		Description:    fmt.Sprintf("Cab booking %s", reference),
		IdempotencyKey: "session-" + sessionID.String(),
		Metadata: map[string]string{
			"session_id":   sessionID.String(),
			"content_hash": hash,
			"reference":    reference,
		},
	})
	if err != nil {
		c.log.Error("create payment intent failed", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, err
	}

	session := &dbm.PaymentSession{
		BaseModel:       dbm.BaseModel{ID: sessionID},
		ContentHash:     hash,
		AccountID:       accountID,
		CustomerEmail:   draft.Passenger.Email,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountMinor:     quote.TotalMinor,
		Currency:        quote.Currency,
		Status:          dbm.SessionStatusOpen,
		Payload:         raw,
		ExpiresAt:       now.Add(c.ttl).Unix(),
	}
	if err := c.sessions.Create(ctx, session); err != nil {
		c.log.Error("persist payment session failed", zap.String("intent_id", intent.ID), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	metrics.IncPaymentSession("created")
	c.log.Info("payment session opened",
		zap.String("session_id", sessionID.String()),
		zap.String("reference", reference),
		zap.Int64("amount", quote.TotalMinor))
	return sessionResponse(session, false), nil
}

func sessionResponse(s *dbm.PaymentSession, reused bool) *response_models.CheckoutSessionResponse {
	return &response_models.CheckoutSessionResponse{
		SessionID:    s.ID.String(),
		ClientSecret: s.ClientSecret,
		AmountMinor:  s.AmountMinor,
		Currency:     s.Currency,
		ExpiresAt:    utils.FormatRFC3339UK(utils.FromUnixSecondsUK(s.ExpiresAt)),
		Reused:       reused,
	}
}

func (c *checkoutService) GetSessionStatus(ctx context.Context, sessionID uuid.UUID) (*response_models.CheckoutStatusResponse, error) {
	session, err := c.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if session == nil {
		return nil, utils.ErrSessionNotFound
	}

	status := session.Status
	if status == dbm.SessionStatusOpen && session.Expired(c.now()) {
		status = dbm.SessionStatusExpired
	}
	out := &response_models.CheckoutStatusResponse{
		SessionID: session.ID.String(),
		Status:    string(status),
	}

	if session.BookingID != nil {
		booking, err := c.bookings.FindByID(ctx, *session.BookingID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if booking != nil {
			out.BookingID = booking.ID.String()
			out.BookingReference = booking.Reference
		}
	}
	return out, nil
}

// HandleWebhook applies a verified payment event. Events for unknown
// sessions, unhandled types and signed events whose object cannot be
// decoded are acknowledged so the provider stops retrying them.
func (c *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := c.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, utils.ErrWebhookSignature) {
			c.log.Warn("rejected webhook", zap.Error(err))
			return err
		}
		c.log.Error("dropping undecodable webhook", zap.Error(err))
		return nil
	}
	metrics.IncWebhookEvent(event.Type)

	log := c.log.With(zap.String("event_id", event.ID), zap.String("event_type", event.Type))
	switch event.Kind {
	case PaymentSucceeded:
		return c.completeSession(ctx, event, log)
	case PaymentFailed, PaymentCanceled:
		return c.failSession(ctx, event, log)
	default:
		log.Debug("ignoring webhook event")
		return nil
	}
}

func (c *checkoutService) completeSession(ctx context.Context, event *PaymentEvent, log *zap.Logger) error {
	session, err := c.sessions.FindByIntentID(ctx, event.IntentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if session == nil {
		log.Warn("payment succeeded for unknown session", zap.String("intent_id", event.IntentID))
		return nil
	}
	if session.Status == dbm.SessionStatusCompleted {
		log.Info("payment session already completed", zap.String("session_id", session.ID.String()))
		return nil
	}
	if event.AmountMinor != session.AmountMinor || !strings.EqualFold(event.Currency, session.Currency) {
		log.Error("payment amount does not match session",
			zap.String("session_id", session.ID.String()),
			zap.Int64("paid", event.AmountMinor),
			zap.Int64("expected", session.AmountMinor))
		return nil
	}

	booking, err := bookingFromSession(session)
	if err != nil {
		log.Error("session payload unreadable", zap.String("session_id", session.ID.String()), zap.Error(err))
		return nil
	}

	bookingID, created, err := c.sessions.CompleteWithBooking(ctx, session.ID, booking)
	if err != nil {
		log.Error("complete payment session failed", zap.String("session_id", session.ID.String()), zap.Error(err))
		return utils.ErrDatabaseError
	}
	if !created {
		return nil
	}

	metrics.IncBookingStatus(string(dbm.BookingStatusConfirmed))
	log.Info("booking confirmed",
		zap.String("booking_id", bookingID.String()),
		zap.String("reference", booking.Reference))

	if err := c.mailer.SendBookingConfirmation(ctx, booking); err != nil {
		log.Warn("confirmation email not sent", zap.String("reference", booking.Reference), zap.Error(err))
	}
	return nil
}

func (c *checkoutService) failSession(ctx context.Context, event *PaymentEvent, log *zap.Logger) error {
	session, err := c.sessions.FindByIntentID(ctx, event.IntentID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if session == nil || session.Status != dbm.SessionStatusOpen {
		return nil
	}

	err = c.sessions.UpdateStatus(ctx, session.ID, dbm.SessionStatusOpen, dbm.SessionStatusFailed)
	if err != nil && !errors.Is(err, repositories.ErrStaleStatus) {
		return utils.ErrDatabaseError
	}
	log.Info("payment session failed", zap.String("session_id", session.ID.String()))
	return nil
}

func bookingFromSession(s *dbm.PaymentSession) (*dbm.Booking, error) {
	var p sessionPayload
	if err := json.Unmarshal(s.Payload, &p); err != nil {
		return nil, err
	}

	sessionID := s.ID
	b := &dbm.Booking{
		Reference:        p.Reference,
		AccountID:        s.AccountID,
		PassengerName:    p.Passenger.Name,
		PassengerEmail:   p.Passenger.Email,
		PassengerPhone:   p.Passenger.Phone,
		Passengers:       p.Ride.Passengers,
		Luggage:          p.Ride.Luggage,
		ServiceType:      p.Ride.ServiceType,
		Status:           dbm.BookingStatusConfirmed,
		Notes:            p.Passenger.Notes,
		TotalMinor:       s.AmountMinor,
		Currency:         s.Currency,
		PaymentIntentID:  s.PaymentIntentID,
		PaymentSessionID: &sessionID,
	}

	legs := []request_models.JourneyRequest{p.Ride.Outbound}
	if p.Ride.Return != nil {
		legs = append(legs, *p.Ride.Return)
	}
	if len(p.Quote.Journeys) != len(legs) {
		return nil, fmt.Errorf("quote has %d journeys for %d legs", len(p.Quote.Journeys), len(legs))
	}

	for i, leg := range legs {
		q := p.Quote.Journeys[i]
		b.Journeys = append(b.Journeys, dbm.Journey{
			Leg:             dbm.JourneyLeg(q.Leg),
			PickupAddress:   leg.Pickup.Address,
			PickupPlaceID:   leg.Pickup.PlaceID,
			PickupLat:       leg.Pickup.Lat,
			PickupLng:       leg.Pickup.Lng,
			DropoffAddress:  leg.Dropoff.Address,
			DropoffPlaceID:  leg.Dropoff.PlaceID,
			DropoffLat:      leg.Dropoff.Lat,
			DropoffLng:      leg.Dropoff.Lng,
			PickupAt:        leg.PickupAt,
			DistanceMiles:   q.DistanceMiles,
			DurationMinutes: q.DurationMinutes,
			WaitMinutes:     leg.WaitMinutes,
			FareMinor:       q.Fare.Total,
			FlightNumber:    strings.ToUpper(strings.TrimSpace(leg.FlightNumber)),
		})
	}
	return b, nil
}

func (c *checkoutService) ExpireStaleSessions(ctx context.Context) (int64, error) {
	n, err := c.sessions.ExpireStale(ctx, c.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		c.log.Info("expired stale payment sessions", zap.Int64("count", n))
	}
	return n, nil
}
