package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"googlemaps.github.io/maps"

	dbm "cabbie/internal/models/db_models"
	"cabbie/internal/models/request_models"
	"cabbie/internal/models/response_models"
	"cabbie/internal/repositories"
)

// ---- maps ----

type fakeMaps struct {
	mu            sync.Mutex
	matrixCalls   int
	meters        int
	seconds       time.Duration
	elementStatus string
	predictions   []maps.AutocompletePrediction
	details       maps.PlaceDetailsResult
	err           error
	lastAuto      *maps.PlaceAutocompleteRequest
}

func (f *fakeMaps) PlaceAutocomplete(_ context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error) {
	f.lastAuto = r
	if f.err != nil {
		return maps.AutocompleteResponse{}, f.err
	}
	return maps.AutocompleteResponse{Predictions: f.predictions}, nil
}

func (f *fakeMaps) PlaceDetails(_ context.Context, _ *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error) {
	if f.err != nil {
		return maps.PlaceDetailsResult{}, f.err
	}
	return f.details, nil
}

func (f *fakeMaps) DistanceMatrix(_ context.Context, _ *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error) {
	f.mu.Lock()
	f.matrixCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	status := f.elementStatus
	if status == "" {
		status = "OK"
	}
	return &maps.DistanceMatrixResponse{
		Rows: []maps.DistanceMatrixElementsRow{{
			Elements: []*maps.DistanceMatrixElement{{
				Status:   status,
				Distance: maps.Distance{Meters: f.meters},
				Duration: f.seconds,
			}},
		}},
	}, nil
}

// ---- places (for quote tests) ----

type fakePlaces struct {
	mu     sync.Mutex
	routes map[string]RouteInfo
	calls  int
	err    error
}

func (f *fakePlaces) Autocomplete(context.Context, string, string) ([]response_models.PlacePrediction, error) {
	return nil, nil
}

func (f *fakePlaces) Details(context.Context, string, string) (*response_models.PlaceDetails, error) {
	return nil, nil
}

func (f *fakePlaces) Route(_ context.Context, origin, destination string) (RouteInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return RouteInfo{}, f.err
	}
	if r, ok := f.routes[origin+"|"+destination]; ok {
		return r, nil
	}
	return RouteInfo{DistanceMeters: 16093, DurationSeconds: 1200}, nil
}

// ---- payment gateway ----

type fakeGateway struct {
	mu       sync.Mutex
	intents  []IntentRequest
	refunds  []string
	event    *PaymentEvent
	parseErr error
	err      error
}

func (f *fakeGateway) CreateIntent(_ context.Context, req IntentRequest) (*PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.intents = append(f.intents, req)
	id := "pi_" + req.Metadata["session_id"]
	return &PaymentIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (f *fakeGateway) Refund(_ context.Context, intentID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.refunds = append(f.refunds, intentID)
	return "re_" + intentID, nil
}

func (f *fakeGateway) ParseWebhook(_ []byte, _ string) (*PaymentEvent, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}

// ---- mailer ----

type fakeMailer struct {
	mu            sync.Mutex
	confirmations []string
	cancellations []string
	resets        map[string]string
	enquiries     []request_models.ContactRequest
	err           error
}

func (f *fakeMailer) SendBookingConfirmation(_ context.Context, b *dbm.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, b.Reference)
	return f.err
}

func (f *fakeMailer) SendBookingCancellation(_ context.Context, b *dbm.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancellations = append(f.cancellations, b.Reference)
	return f.err
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resets == nil {
		f.resets = map[string]string{}
	}
	f.resets[email] = token
	return f.err
}

func (f *fakeMailer) SendContactEnquiry(_ context.Context, req request_models.ContactRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enquiries = append(f.enquiries, req)
	return f.err
}

// ---- repositories ----

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*dbm.PaymentSession
	bookings *fakeBookingRepo
}

func newFakeSessionRepo(bookings *fakeBookingRepo) *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*dbm.PaymentSession{}, bookings: bookings}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *dbm.PaymentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	f.sessions[s.ID] = &cp
	return nil
}

func (f *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*dbm.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindByIntentID(_ context.Context, intentID string) (*dbm.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.PaymentIntentID == intentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) FindOpenByHash(_ context.Context, hash string, now time.Time) (*dbm.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.sessions {
		if s.ContentHash == hash && s.Status == dbm.SessionStatusOpen && s.ExpiresAt > now.Unix() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to dbm.PaymentSessionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.Status != from {
		return repositories.ErrStaleStatus
	}
	s.Status = to
	return nil
}

func (f *fakeSessionRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, s := range f.sessions {
		if s.Status == dbm.SessionStatusOpen && s.ExpiresAt <= now.Unix() {
			s.Status = dbm.SessionStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeSessionRepo) CompleteWithBooking(ctx context.Context, sessionID uuid.UUID, b *dbm.Booking) (uuid.UUID, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return uuid.Nil, false, errors.New("record not found")
	}
	if s.Status == dbm.SessionStatusCompleted && s.BookingID != nil {
		return *s.BookingID, false, nil
	}
	if err := f.bookings.insert(b); err != nil {
		return uuid.Nil, false, err
	}
	s.Status = dbm.SessionStatusCompleted
	s.BookingID = &b.ID
	return b.ID, true, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*dbm.Booking
	err      error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*dbm.Booking{}}
}

func (f *fakeBookingRepo) insert(b *dbm.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	for _, existing := range f.bookings {
		if b.PaymentIntentID != "" && existing.PaymentIntentID == b.PaymentIntentID {
			return errors.New("duplicate payment intent")
		}
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = time.Now().Unix()
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) get(id uuid.UUID) *dbm.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id]
}

func (f *fakeBookingRepo) find(match func(*dbm.Booking) bool) (*dbm.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if match(b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*dbm.Booking, error) {
	return f.find(func(b *dbm.Booking) bool { return b.ID == id })
}

func (f *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*dbm.Booking, error) {
	return f.find(func(b *dbm.Booking) bool { return b.Reference == reference })
}

func (f *fakeBookingRepo) FindByPaymentIntent(_ context.Context, intentID string) (*dbm.Booking, error) {
	return f.find(func(b *dbm.Booking) bool { return b.PaymentIntentID == intentID })
}

func (f *fakeBookingRepo) filter(match func(*dbm.Booking) bool, page, pageSize int) ([]dbm.Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []dbm.Booking
	for _, b := range f.bookings {
		if match(b) {
			all = append(all, *b)
		}
	}
	sort.Slice(all, func(i, k int) bool { return all[i].Reference < all[k].Reference })
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeBookingRepo) ListByAccount(_ context.Context, accountID uuid.UUID, page, pageSize int) ([]dbm.Booking, int64, error) {
	return f.filter(func(b *dbm.Booking) bool { return b.OwnedBy(accountID) }, page, pageSize)
}

func (f *fakeBookingRepo) List(_ context.Context, filter repositories.BookingFilter) ([]dbm.Booking, int64, error) {
	return f.filter(func(b *dbm.Booking) bool {
		if filter.Status != "" && b.Status != filter.Status {
			return false
		}
		first := b.FirstPickup()
		if filter.From != nil && first.Before(*filter.From) {
			return false
		}
		if filter.To != nil && !first.Before(*filter.To) {
			return false
		}
		return true
	}, filter.Page, filter.PageSize)
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to dbm.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return repositories.ErrStaleStatus
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) MarkCancelled(_ context.Context, id uuid.UUID, refundID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status == dbm.BookingStatusCancelled {
		return repositories.ErrStaleStatus
	}
	ts := at.Unix()
	b.Status = dbm.BookingStatusCancelled
	b.RefundID = refundID
	b.CancelledAt = &ts
	return nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*dbm.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]*dbm.Account{}}
}

func (f *fakeAccountRepo) InsertTx(_ context.Context, a *dbm.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts[a.Email]; ok {
		return errors.New("duplicate")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.accounts[a.Email] = &cp
	return nil
}

func (f *fakeAccountRepo) FindById(_ context.Context, id uuid.UUID) (*dbm.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*dbm.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[email]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeAccountRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.ID == id {
			a.PasswordHash = hash
			return nil
		}
	}
	return errors.New("not found")
}
