package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EmmanuelR15/portfolio/internal/config"
)

// Sender delivers a message. Implementations must return once ctx is done.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, m Message) error

func (fn SenderFunc) Send(ctx context.Context, m Message) error { return fn(ctx, m) }

// DefaultSimulatedDelay is how long SimulatedSender pretends to work.
const DefaultSimulatedDelay = 2 * time.Second

// SimulatedSender waits for Delay and reports success, standing in for a
// real backend during development.
type SimulatedSender struct {
	Delay time.Duration
}

func (s SimulatedSender) Send(ctx context.Context, _ Message) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LogSender writes messages to the log instead of sending them.
type LogSender struct {
	Log *zap.Logger
}

func (s LogSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Log.Info("contact message",
		zap.String("id", m.ID),
		zap.String("name", m.Name),
		zap.String("email", m.Email),
		zap.Int("length", len(m.Body)),
	)
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender mails each message to the site owner.
type SMTPSender struct {
	cfg      config.SMTPConfig
	log      *zap.Logger
	sendMail sendMailFunc
}

// NewSMTPSender returns an SMTP sender. Credentials are required.
func NewSMTPSender(cfg config.SMTPConfig, log *zap.Logger) (*SMTPSender, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP credentials not configured")
	}
	return &SMTPSender{cfg: cfg, log: log, sendMail: smtp.SendMail}, nil
}

// Send runs the SMTP exchange in the background so that it can be abandoned
// when ctx is done; net/smtp itself has no cancellation.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	msg := composeMail(s.cfg.To, s.cfg.Username, m)

	done := make(chan error, 1)
	go func() {
		done <- s.sendMail(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.Username, []string{s.cfg.To}, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.Error("sending email", zap.String("id", m.ID), zap.Error(err))
			return fmt.Errorf("sending email: %w", err)
		}
		s.log.Info("email sent", zap.String("id", m.ID), zap.String("from", m.Email))
		return nil
	case <-ctx.Done():
		s.log.Warn("email abandoned", zap.String("id", m.ID), zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

var headerReplacer = strings.NewReplacer("\r", " ", "\n", " ")

func composeMail(to, from string, m Message) []byte {
	name := headerReplacer.Replace(m.Name)
	replyTo := headerReplacer.Replace(m.Email)

	subject := fmt.Sprintf("Portfolio Contact: %s", name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, name, replyTo, m.Body)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + replyTo + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// NewSender picks the delivery backend configured for the contact form.
func NewSender(cfg config.ContactConfig, log *zap.Logger) (Sender, error) {
	switch cfg.Delivery {
	case config.DeliverySMTP:
		return NewSMTPSender(cfg.SMTP, log)
	case config.DeliveryLog:
		return LogSender{Log: log}, nil
	case config.DeliverySimulated, "":
		delay := cfg.SimulatedDelay
		if delay <= 0 {
			delay = DefaultSimulatedDelay
		}
		return SimulatedSender{Delay: delay}, nil
	default:
		return nil, fmt.Errorf("unknown contact delivery %q", cfg.Delivery)
	}
}
