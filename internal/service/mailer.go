//go:generate mockery --name Mailer --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/haradejene/yegara-web-lms/internal/config"
	"github.com/haradejene/yegara-web-lms/internal/middleware"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// --- LogMailer ---
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject, "body", body)
	return nil
}

// --- SmtpMailer ---
// Plain SMTP without auth, intended for a local relay such as MailHog.
type SmtpMailer struct {
	cfg *config.SMTPConfig
}

func (m *SmtpMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	logger.Debug("Attempting to send email via SMTP", "smtp_addr", addr, "from", m.cfg.From, "to", to)

	c, err := smtp.Dial(addr)
	if err != nil {
		logger.Error("Failed to connect to SMTP server", "error", err, "addr", addr)
		return err
	}
	defer c.Close()

	if err = c.Mail(m.cfg.From); err != nil {
		logger.Error("Failed to set MAIL FROM", "error", err, "from", m.cfg.From)
		return err
	}
	if err = c.Rcpt(to); err != nil {
		logger.Error("Failed to set RCPT TO", "error", err, "to", to)
		return err
	}

	wc, err := c.Data()
	if err != nil {
		logger.Error("Failed to open data writer", "error", err)
		return err
	}

	msg := "From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n"

	if _, err = wc.Write([]byte(msg)); err != nil {
		wc.Close()
		logger.Error("Failed to write email data", "error", err)
		return err
	}
	if err = wc.Close(); err != nil {
		logger.Error("Failed to finish email data", "error", err)
		return err
	}
	if err = c.Quit(); err != nil {
		logger.Warn("SMTP QUIT failed", "error", err)
	}

	logger.Info("Email sent successfully via SMTP", "to", to, "subject", subject)
	return nil
}

// NewMailer picks the implementation named by mail.provider.
func NewMailer(cfg *config.Config) (Mailer, error) {
	logger := slog.Default()
	switch cfg.Mail.Provider {
	case "ses":
		logger.Info("Initializing SES mailer...")
		return NewSESMailer(cfg)
	case "smtp":
		logger.Info("Initializing SMTP mailer...")
		return &SmtpMailer{cfg: &cfg.SMTP}, nil
	case "log", "":
		logger.Info("Initializing Log mailer...")
		return &LogMailer{}, nil
	default:
		logger.Warn("Unknown mail provider, defaulting to LogMailer", "provider", cfg.Mail.Provider)
		return &LogMailer{}, nil
	}
}

// enrollmentEmail renders the confirmation sent after a successful enrollment.
func enrollmentEmail(appName, frontendURL, fullName, courseTitle, courseID string) (string, string) {
	name := fullName
	if name == "" {
		name = "there"
	}
	subject := fmt.Sprintf("[%s] You are enrolled in %s", appName, courseTitle)
	body := fmt.Sprintf("Hi %s,\n\nYou are now enrolled in \"%s\".\nStart learning: %s/courses/%s\n\nThe %s team",
		name, courseTitle, frontendURL, courseID, appName)
	return subject, body
}
