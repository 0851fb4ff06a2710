package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cabbie/internal/models/request_models"
	"cabbie/internal/models/response_models"
	"cabbie/pkg/utils"
)

type WizardStep string

const (
	StepRideDetails   WizardStep = "ride_details"
	StepPassengerInfo WizardStep = "passenger_info"
	StepCheckout      WizardStep = "checkout"
)

// previous returns the step Back moves to. The first step has no predecessor.
func (s WizardStep) previous() WizardStep {
	switch s {
	case StepCheckout:
		return StepPassengerInfo
	case StepPassengerInfo:
		return StepRideDetails
	}
	return StepRideDetails
}

type wizardDraft struct {
	ID        string                         `json:"id"`
	Step      WizardStep                     `json:"step"`
	AccountID string                         `json:"account_id,omitempty"`
	Ride      *request_models.RideDetails    `json:"ride,omitempty"`
	Passenger *request_models.PassengerInfo  `json:"passenger,omitempty"`
	Quote     *response_models.QuoteResponse `json:"quote,omitempty"`
	ExpiresAt time.Time                      `json:"expires_at"`
}

func (d *wizardDraft) response() *response_models.DraftResponse {
	return &response_models.DraftResponse{
		ID:        d.ID,
		Step:      string(d.Step),
		Ride:      d.Ride,
		Passenger: d.Passenger,
		Quote:     d.Quote,
		ExpiresAt: utils.FormatRFC3339UK(d.ExpiresAt),
	}
}

type WizardServiceInterface interface {
	CreateDraft(ctx context.Context, accountID *uuid.UUID) (*response_models.DraftResponse, error)
	GetDraft(ctx context.Context, id string) (*response_models.DraftResponse, error)
	SubmitRideDetails(ctx context.Context, id string, ride request_models.RideDetails) (*response_models.DraftResponse, error)
	SubmitPassengerInfo(ctx context.Context, id string, info request_models.PassengerInfo) (*response_models.DraftResponse, error)
	Back(ctx context.Context, id string) (*response_models.DraftResponse, error)

	// CompletedDraft returns the booking draft of a wizard that reached checkout.
	CompletedDraft(ctx context.Context, id string) (*request_models.BookingDraft, error)
}

type WizardService struct {
	store  KVStore
	quotes QuoteServiceInterface
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewWizardService(store KVStore, quotes QuoteServiceInterface, ttl time.Duration, log *zap.Logger) *WizardService {
	return &WizardService{
		store:  store,
		quotes: quotes,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

func draftKey(id string) string { return "draft:" + id }

func (w *WizardService) load(ctx context.Context, id string) (*wizardDraft, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrDraftNotFound
	}
	b, err := w.store.Get(ctx, draftKey(id))
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if b == nil {
		return nil, utils.ErrDraftNotFound
	}
	var d wizardDraft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// save refreshes the draft expiry on every write.
func (w *WizardService) save(ctx context.Context, d *wizardDraft) error {
	d.ExpiresAt = w.now().Add(w.ttl)
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return w.store.Set(ctx, draftKey(d.ID), b, w.ttl)
}

func (w *WizardService) CreateDraft(ctx context.Context, accountID *uuid.UUID) (*response_models.DraftResponse, error) {
	d := &wizardDraft{ID: uuid.NewString(), Step: StepRideDetails}
	if accountID != nil {
		d.AccountID = accountID.String()
	}
	if err := w.save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d.response(), nil
}

func (w *WizardService) GetDraft(ctx context.Context, id string) (*response_models.DraftResponse, error) {
	d, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.response(), nil
}

func (w *WizardService) SubmitRideDetails(ctx context.Context, id string, ride request_models.RideDetails) (*response_models.DraftResponse, error) {
	d, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Step != StepRideDetails {
		return nil, fmt.Errorf("%w: ride details cannot be submitted at %s", utils.ErrInvalidStepTransition, d.Step)
	}
	if err := ValidateRide(ride, w.now()); err != nil {
		return nil, err
	}

	quote, err := w.quotes.Quote(ctx, ride)
	if err != nil {
		return nil, err
	}

	d.Ride = &ride
	d.Quote = quote
	d.Step = StepPassengerInfo
	if err := w.save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	w.log.Debug("draft ride details accepted", zap.String("draft_id", d.ID), zap.Int64("total", quote.TotalMinor))
	return d.response(), nil
}

func (w *WizardService) SubmitPassengerInfo(ctx context.Context, id string, info request_models.PassengerInfo) (*response_models.DraftResponse, error) {
	d, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Step != StepPassengerInfo || d.Ride == nil {
		return nil, fmt.Errorf("%w: passenger info cannot be submitted at %s", utils.ErrInvalidStepTransition, d.Step)
	}

	d.Passenger = &info
	d.Step = StepCheckout
	if err := w.save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d.response(), nil
}

func (w *WizardService) Back(ctx context.Context, id string) (*response_models.DraftResponse, error) {
	d, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Step == StepRideDetails {
		return d.response(), nil
	}

	d.Step = d.Step.previous()
	if err := w.save(ctx, d); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return d.response(), nil
}

func (w *WizardService) CompletedDraft(ctx context.Context, id string) (*request_models.BookingDraft, error) {
	d, err := w.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Step != StepCheckout || d.Ride == nil || d.Passenger == nil {
		return nil, fmt.Errorf("%w: draft is at %s", utils.ErrInvalidStepTransition, d.Step)
	}
	return &request_models.BookingDraft{Ride: *d.Ride, Passenger: *d.Passenger}, nil
}
