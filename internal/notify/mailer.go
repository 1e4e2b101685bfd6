package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/wonny/liquidity/internal/contracts"
	"github.com/wonny/liquidity/pkg/config"
	"github.com/wonny/liquidity/pkg/logger"
)

const subject = "🌐 글로벌 유동성 알림"

// ErrNotConfigured is returned when SMTP host or sender is missing
var ErrNotConfigured = errors.New("smtp not configured")

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer implements contracts.Notifier over SMTP
// ⭐ SSOT: 알림 메일 발송은 여기서만
type Mailer struct {
	cfg      config.SMTPConfig
	location *time.Location
	send     SendFunc
	logger   *logger.Logger
}

var _ contracts.Notifier = (*Mailer)(nil)

// NewMailer creates a mailer. loc formats the timestamp (nil = UTC).
func NewMailer(cfg config.SMTPConfig, loc *time.Location, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		location: loc,
		send:     smtp.SendMail,
		logger:   log.WithField("module", "notify"),
	}
}

// WithSendFunc replaces the SMTP transport (tests)
func (m *Mailer) WithSendFunc(fn SendFunc) *Mailer {
	m.send = fn
	return m
}

// Send e-mails the alert bundle to recipient
func (m *Mailer) Send(ctx context.Context, recipient string, alerts []contracts.Alert, result contracts.CompositeResult) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return ErrNotConfigured
	}
	if len(alerts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.Compose(recipient, alerts, result, time.Now())
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send alert email: %w", err)
	}

	m.logger.WithFields(map[string]interface{}{
		"recipient": recipient,
		"alerts":    len(alerts),
		"score":     result.Score,
	}).Info("Alert email sent")

	return nil
}

// Compose builds the multipart/alternative MIME message
func (m *Mailer) Compose(recipient string, alerts []contracts.Alert, result contracts.CompositeResult, now time.Time) ([]byte, error) {
	htmlBody, err := RenderHTML(alerts, result, m.location)
	if err != nil {
		return nil, err
	}
	textBody := RenderText(alerts, result)

	var h mail.Header
	h.SetDate(now)
	h.SetSubject(subject)
	h.SetAddressList("From", []*mail.Address{{Name: m.cfg.FromName, Address: m.cfg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: recipient}})

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create mail writer: %w", err)
	}

	tw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline part: %w", err)
	}
	if err := writePart(tw, "text/plain", textBody); err != nil {
		return nil, err
	}
	if err := writePart(tw, "text/html", htmlBody); err != nil {
		return nil, err
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writePart(tw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})

	w, err := tw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	return w.Close()
}
