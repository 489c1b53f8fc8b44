package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/rakmedia/hr-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	WelcomeSubject       = "Welcome — activate your account / set password"
	PasswordResetSubject = "Reset your password"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendWelcome(to, username, resetLink, expiresAt string) error
	SendPasswordReset(to, username, resetLink, expiresAt string) error
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	dialer    Dialer
	templates *template.Template
}

// NewEmailService creates a new email service instance. When cfg.Host is
// empty messages are logged instead of sent.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	var dialer Dialer
	if cfg.Host != "" {
		dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return NewEmailServiceWithDialer(cfg, dialer)
}

func NewEmailServiceWithDialer(cfg config.SMTPConfig, dialer Dialer) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		dialer:    dialer,
		templates: tmpl,
	}, nil
}

type linkEmailData struct {
	Username  string
	ResetLink string
	ExpiresAt string
}

// SendWelcome sends the set-your-password email for a new account
func (s *emailServiceImpl) SendWelcome(to, username, resetLink, expiresAt string) error {
	return s.sendTemplate(to, WelcomeSubject, "welcome.html", linkEmailData{
		Username:  username,
		ResetLink: resetLink,
		ExpiresAt: expiresAt,
	})
}

// SendPasswordReset sends a password reset email to the user
func (s *emailServiceImpl) SendPasswordReset(to, username, resetLink, expiresAt string) error {
	return s.sendTemplate(to, PasswordResetSubject, "password_reset.html", linkEmailData{
		Username:  username,
		ResetLink: resetLink,
		ExpiresAt: expiresAt,
	})
}

func (s *emailServiceImpl) sendTemplate(to, subject, name string, data linkEmailData) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	plain := fmt.Sprintf("Hello %s,\n\nOpen the link below to set your password:\n%s\n\nIf you did not request this, ignore this email.\n",
		data.Username, data.ResetLink)

	return s.send(to, subject, plain, body.String())
}

func (s *emailServiceImpl) send(to, subject, plainBody, htmlBody string) error {
	if s.dialer == nil {
		slog.Info("SMTP not configured, email logged only", "to", to, "subject", subject, "body", plainBody)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(msg); err != nil {
		slog.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	slog.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
