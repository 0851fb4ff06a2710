package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"cabbie/pkg/utils"
)

type PaymentEventKind string

const (
	PaymentSucceeded PaymentEventKind = "succeeded"
	PaymentFailed    PaymentEventKind = "failed"
	PaymentCanceled  PaymentEventKind = "canceled"
	PaymentOther     PaymentEventKind = "other"
)

type IntentRequest struct {
	AmountMinor    int64
	Currency       string
	ReceiptEmail   string
	Description    string
	IdempotencyKey string
	Metadata       map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentEvent is a verified webhook event reduced to what checkout needs.
type PaymentEvent struct {
	ID          string
	Type        string
	Kind        PaymentEventKind
	IntentID    string
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error)
	Refund(ctx context.Context, intentID string) (refundID string, err error)
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}

type stripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) (PaymentGateway, error) {
	if secretKey == "" || webhookSecret == "" {
		return nil, errors.New("missing Stripe credentials")
	}
	return &stripeGateway{
		api:           client.New(secretKey, nil),
		webhookSecret: webhookSecret,
	}, nil
}

func (s *stripeGateway) CreateIntent(ctx context.Context, req IntentRequest) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.ReceiptEmail != "" {
		params.ReceiptEmail = stripe.String(req.ReceiptEmail)
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create payment intent: %v", utils.ErrPaymentProvider, err)
	}
	return &PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *stripeGateway) Refund(ctx context.Context, intentID string) (string, error) {
	params := &stripe.RefundParams{PaymentIntent: stripe.String(intentID)}
	params.Context = ctx
	params.SetIdempotencyKey("refund-" + intentID)

	r, err := s.api.Refunds.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: refund %s: %v", utils.ErrPaymentProvider, intentID, err)
	}
	return r.ID, nil
}

func (s *stripeGateway) ParseWebhook(payload []byte, signature string) (*PaymentEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrWebhookSignature, err)
	}

	out := &PaymentEvent{ID: event.ID, Type: string(event.Type), Kind: PaymentOther}
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		out.Kind = PaymentSucceeded
	case stripe.EventTypePaymentIntentPaymentFailed:
		out.Kind = PaymentFailed
	case stripe.EventTypePaymentIntentCanceled:
		out.Kind = PaymentCanceled
	default:
		return out, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("decode payment intent: %w", err)
	}
	out.IntentID = pi.ID
	out.AmountMinor = pi.Amount
	out.Currency = strings.ToUpper(string(pi.Currency))
	out.Metadata = pi.Metadata
	return out, nil
}
