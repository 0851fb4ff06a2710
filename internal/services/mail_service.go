// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"cabbie/internal/config"
	dbm "cabbie/internal/models/db_models"
	"cabbie/internal/models/request_models"
	"cabbie/pkg/metrics"
	"cabbie/pkg/utils"
)

type IMailService interface {
	SendBookingConfirmation(ctx context.Context, b *dbm.Booking) error
	SendBookingCancellation(ctx context.Context, b *dbm.Booking) error
	SendPasswordReset(ctx context.Context, email, token string) error
	SendContactEnquiry(ctx context.Context, req request_models.ContactRequest) error
}

type MailConfig struct {
	SMTP          config.SMTPConfig
	AppName       string // used in header and footer
	AppBaseURL    string // e.g. "https://cabbie.example"
	OperatorEmail string // receives contact enquiries
	ResetTTL      time.Duration
}

// MailTransport delivers one rendered message.
type MailTransport interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type mailService struct {
	cfg       MailConfig
	transport MailTransport
	htmlTpl   *template.Template
	textTpl   *texttemplate.Template
	log       *zap.Logger
}

// NewMailService sends over SMTP when a host is configured and otherwise
// only logs what would have been sent.
func NewMailService(cfg MailConfig, log *zap.Logger) IMailService {
	var transport MailTransport
	if cfg.SMTP.Enabled() {
		transport = &smtpTransport{cfg: cfg.SMTP}
	} else {
		log.Warn("SMTP_HOST not set, emails will be logged only")
		transport = &logTransport{log: log}
	}
	return newMailService(cfg, transport, log)
}

func newMailService(cfg MailConfig, transport MailTransport, log *zap.Logger) *mailService {
	return &mailService{
		cfg:       cfg,
		transport: transport,
		htmlTpl:   template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl:   texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		log:       log,
	}
}

// ------------------- Public API -------------------

func (s *mailService) SendBookingConfirmation(ctx context.Context, b *dbm.Booking) error {
	subject := fmt.Sprintf("Booking confirmed: %s", b.Reference)
	data := s.bookingEmail(b, subject,
		fmt.Sprintf("Thanks %s, your booking is confirmed and paid. Your reference is %s.", b.PassengerName, b.Reference))
	data.ButtonTxt = "View booking"
	data.ButtonURL = fmt.Sprintf("%s/bookings/lookup?reference=%s&email=%s",
		s.cfg.AppBaseURL, url.QueryEscape(b.Reference), url.QueryEscape(b.PassengerEmail))
	return s.deliver(ctx, "booking_confirmation", b.PassengerEmail, subject, data)
}

func (s *mailService) SendBookingCancellation(ctx context.Context, b *dbm.Booking) error {
	subject := fmt.Sprintf("Booking cancelled: %s", b.Reference)
	intro := fmt.Sprintf("Your booking %s has been cancelled.", b.Reference)
	if b.RefundID != "" {
		intro += fmt.Sprintf(" A refund of %s is on its way to your original payment method.", utils.FormatMoney(b.TotalMinor, b.Currency))
	}
	return s.deliver(ctx, "booking_cancellation", b.PassengerEmail, subject, s.bookingEmail(b, subject, intro))
}

func (s *mailService) SendPasswordReset(ctx context.Context, email, token string) error {
	subject := "Reset your password"
	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.cfg.AppBaseURL, url.QueryEscape(token), url.QueryEscape(email))
	return s.deliver(ctx, "password_reset", email, subject, EmailData{
		Title:     subject,
		Intro:     fmt.Sprintf("We received a request to reset your password. The link below is valid for %s. If you didn't request this, you can safely ignore this email.", validFor(s.cfg.ResetTTL)),
		ButtonURL: link,
		ButtonTxt: "Reset Password",
	})
}

func (s *mailService) SendContactEnquiry(ctx context.Context, req request_models.ContactRequest) error {
	if s.cfg.OperatorEmail == "" {
		s.log.Warn("OPERATOR_EMAIL not set, dropping contact enquiry", zap.String("from", req.Email))
		return nil
	}
	subject := fmt.Sprintf("Website enquiry from %s", req.Name)
	return s.deliver(ctx, "contact_enquiry", s.cfg.OperatorEmail, subject, EmailData{
		Title: subject,
		Intro: req.Message,
		Rows: []EmailRow{
			{Label: "Name", Value: req.Name},
			{Label: "Email", Value: req.Email},
			{Label: "Phone", Value: req.Phone},
		},
	})
}

func (s *mailService) bookingEmail(b *dbm.Booking, title, intro string) EmailData {
	rows := []EmailRow{
		{Label: "Reference", Value: b.Reference},
		{Label: "Vehicle", Value: b.ServiceType},
		{Label: "Passengers", Value: fmt.Sprintf("%d (luggage %d)", b.Passengers, b.Luggage)},
	}
	for _, j := range b.Journeys {
		leg := "Outbound"
		if j.Leg == dbm.LegReturn {
			leg = "Return"
		}
		rows = append(rows, EmailRow{
			Label: leg,
			Value: fmt.Sprintf("%s, %s to %s", utils.FormatDisplayUK(j.PickupAt), j.PickupAddress, j.DropoffAddress),
		})
	}
	rows = append(rows, EmailRow{Label: "Total", Value: utils.FormatMoney(b.TotalMinor, b.Currency)})
	return EmailData{Title: title, Intro: intro, Rows: rows}
}

func (s *mailService) deliver(ctx context.Context, name, to, subject string, data EmailData) error {
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()

	html, text, err := s.renderEmail(data)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	err = s.transport.Send(ctx, to, subject, html, text)
	metrics.IncMail(name, err)
	if err != nil {
		s.log.Error("mail delivery failed", zap.String("template", name), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrMailDeliveryFailure, err)
	}
	return nil
}

// ------------------- Rendering -------------------

type EmailRow struct {
	Label string
	Value string
}

type EmailData struct {
	Title     string
	Intro     string
	Rows      []EmailRow
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f1f5f9; color: #0f172a; font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 32px 16px; box-sizing: border-box; }
    .container { max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
    .header { padding: 24px 32px; background: #111827; color: #facc15; font-weight: 700; font-size: 20px; letter-spacing: 0.5px; }
    .hero { padding: 32px; }
    h1 { margin: 0 0 16px; font-size: 24px; }
    p { margin: 0 0 20px; line-height: 1.6; color: #334155; }
    table { width: 100%; border-collapse: collapse; margin: 0 0 24px; }
    td { padding: 8px 0; border-bottom: 1px solid #e2e8f0; font-size: 14px; vertical-align: top; }
    td.label { color: #64748b; width: 120px; }
    .btn { display: inline-block; padding: 14px 28px; background: #111827; color: #ffffff !important; text-decoration: none; border-radius: 8px; font-weight: 600; }
    .muted { color: #94a3b8; font-size: 12px; word-break: break-all; }
    .footer { padding: 20px 32px; color: #64748b; font-size: 12px; text-align: center; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">{{.AppName}}</div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .Rows}}
        <table>
          {{range .Rows}}<tr><td class="label">{{.Label}}</td><td>{{.Value}}</td></tr>
          {{end}}
        </table>
        {{end}}
        {{if .ButtonURL}}
          <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
          <p class="muted">If the button doesn't work, copy this link into your browser: {{.ButtonURL}}</p>
        {{end}}
      </div>
      <div class="footer">&copy; {{.Year}} {{.AppName}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{range .Rows}}
{{.Label}}: {{.Value}}{{end}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *mailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- Transports -------------------

type logTransport struct {
	log *zap.Logger
}

func (l *logTransport) Send(_ context.Context, to, subject, _, _ string) error {
	l.log.Info("mail (not sent, SMTP disabled)", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type smtpTransport struct {
	cfg config.SMTPConfig
}

func (s *smtpTransport) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := buildMIMEMessage(s.formatFromHeader(), to, subject, htmlBody, textBody, time.Now())

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: s.tlsConfig()}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(s.tlsConfig()); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpTransport) tlsConfig() *tls.Config {
	return &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
}

func (s *smtpTransport) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), s.cfg.From)
}

func buildMIMEMessage(from, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

// validFor renders a link lifetime as whole hours or minutes.
func validFor(d time.Duration) string {
	if d <= 0 {
		d = 15 * time.Minute
	}
	plural := func(n int64, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return fmt.Sprintf("%d %ss", n, unit)
	}
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int64(d/time.Hour), "hour")
	}
	return plural(int64((d+time.Minute-1)/time.Minute), "minute")
}
