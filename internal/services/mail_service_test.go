package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbm "cabbie/internal/models/db_models"
	"cabbie/internal/models/request_models"
	"cabbie/pkg/utils"
)

type sentMail struct {
	to, subject, html, text string
}

type captureTransport struct {
	sent []sentMail
	err  error
}

func (c *captureTransport) Send(_ context.Context, to, subject, html, text string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, sentMail{to, subject, html, text})
	return nil
}

func newTestMailer(transport MailTransport) *mailService {
	return newMailService(MailConfig{
		AppName:       "Cabbie",
		AppBaseURL:    "https://cabbie.test",
		OperatorEmail: "ops@cabbie.test",
		ResetTTL:      time.Hour,
	}, transport, zap.NewNop())
}

func TestBookingConfirmationEmail(t *testing.T) {
	tr := &captureTransport{}
	m := newTestMailer(tr)

	b := &dbm.Booking{
		Reference:      "CB-7KQ2MX",
		PassengerName:  "Ada",
		PassengerEmail: "ada@example.com",
		ServiceType:    "executive",
		Passengers:     2,
		TotalMinor:     4530,
		Currency:       "GBP",
		Journeys: []dbm.Journey{{
			Leg:            dbm.LegOutbound,
			PickupAddress:  "1 High St",
			DropoffAddress: "Heathrow <T5>",
			PickupAt:       time.Date(2026, 7, 1, 5, 30, 0, 0, time.UTC),
		}},
	}
	require.NoError(t, m.SendBookingConfirmation(context.Background(), b))
	require.Len(t, tr.sent, 1)

	msg := tr.sent[0]
	assert.Equal(t, "ada@example.com", msg.to)
	assert.Equal(t, "Booking confirmed: CB-7KQ2MX", msg.subject)
	assert.Contains(t, msg.text, "Total: £45.30")
	assert.Contains(t, msg.text, "Wed 01 Jul 2026, 06:30")
	assert.Contains(t, msg.html, "Heathrow &lt;T5&gt;")
	assert.Contains(t, msg.html, "reference=CB-7KQ2MX")
}

func TestPasswordResetEmailEscapesToken(t *testing.T) {
	tr := &captureTransport{}
	m := newTestMailer(tr)

	require.NoError(t, m.SendPasswordReset(context.Background(), "a+b@example.com", "tok/en"))
	require.Len(t, tr.sent, 1)
	assert.Contains(t, tr.sent[0].text, "https://cabbie.test/reset-password?token=tok%2Fen&email=a%2Bb%40example.com")
	assert.Contains(t, tr.sent[0].text, "valid for 1 hour.")
}

func TestValidFor(t *testing.T) {
	assert.Equal(t, "15 minutes", validFor(15*time.Minute))
	assert.Equal(t, "90 minutes", validFor(90*time.Minute))
	assert.Equal(t, "2 hours", validFor(2*time.Hour))
	assert.Equal(t, "1 minute", validFor(30*time.Second))
	assert.Equal(t, "15 minutes", validFor(0))
}

func TestContactEnquiryGoesToOperator(t *testing.T) {
	tr := &captureTransport{}
	m := newTestMailer(tr)

	err := m.SendContactEnquiry(context.Background(), request_models.ContactRequest{
		Name: "Bob", Email: "bob@example.com", Message: "Do you do airport runs at 4am?",
	})
	require.NoError(t, err)
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "ops@cabbie.test", tr.sent[0].to)
	assert.Contains(t, tr.sent[0].text, "Email: bob@example.com")
}

func TestDeliveryFailureIsWrapped(t *testing.T) {
	m := newTestMailer(&captureTransport{err: errors.New("connection refused")})
	err := m.SendPasswordReset(context.Background(), "a@example.com", "t")
	assert.ErrorIs(t, err, utils.ErrMailDeliveryFailure)
}

func TestBuildMIMEMessage(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := string(buildMIMEMessage("Cabbie <no-reply@cabbie.test>", "a@example.com", "Reçu", "<p>hi</p>", "hi", now))

	assert.True(t, strings.HasPrefix(msg, "From: Cabbie <no-reply@cabbie.test>\r\n"))
	assert.Contains(t, msg, "Subject: =?utf-8?q?Re=C3=A7u?=\r\n")
	assert.Contains(t, msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, msg, "Content-Type: text/html; charset=UTF-8")
	assert.True(t, strings.HasSuffix(msg, "--\r\n"))
}
