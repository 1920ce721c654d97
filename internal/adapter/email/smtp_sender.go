package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Dee-Olulo/House-hunting-platform/internal/config"
	"github.com/Dee-Olulo/House-hunting-platform/internal/platform/logger"
)

// Sender sends one email.
type Sender interface {
	Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error
}

type messageDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	from string
	d    messageDialer
	log  *logger.Logger
}

// NewSMTPSender builds a gomail-backed Sender from the SMTP settings.
func NewSMTPSender(cfg config.SMTPConfig, log *logger.Logger) (Sender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, errors.New("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{from: cfg.SenderEmail, d: dialer, log: log.Named("SMTPSender")}, nil
}

func (s *smtpSender) Send(ctx context.Context, to []string, subject, bodyHTML, bodyText string) error {
	if len(to) == 0 {
		return errors.New("no recipients provided for email")
	}
	if bodyHTML == "" && bodyText == "" {
		return errors.New("email body (HTML or Text) must be provided")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	if bodyHTML != "" {
		m.SetBody("text/html", bodyHTML)
		if bodyText != "" {
			m.AddAlternative("text/plain", bodyText)
		}
	} else {
		m.SetBody("text/plain", bodyText)
	}

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warn("Email sending cancelled or timed out", zap.Strings("to", to), zap.String("subject", subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.log.Error("Failed to send email", zap.Strings("to", to), zap.String("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Info("Email sent successfully", zap.Strings("to", to), zap.String("subject", subject))
	return nil
}
