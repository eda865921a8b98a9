// Package mail sends transactional messages over SMTP.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strings"

	appidentity "github.com/store/backend/internal/application/identity"
	"github.com/store/backend/internal/infrastructure/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// SMTPMailer implements Mailer over plain SMTP with AUTH.
type SMTPMailer struct {
	addr      string
	host      string
	from      string
	auth      smtp.Auth
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates: %w", err)
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTPMailer{
		addr:      fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:      cfg.Host,
		from:      cfg.From,
		auth:      auth,
		templates: templates,
		send:      smtp.SendMail,
	}, nil
}

// SendPartnerCredentials mails the initial login and password issued on
// profile activation.
func (m *SMTPMailer) SendPartnerCredentials(ctx context.Context, to, login, password string) error {
	return m.sendTemplate(ctx, to, "Доступ к личному кабинету", "partner_credentials.html", map[string]string{
		"Login":    login,
		"Password": password,
	})
}

// SendEmailChangeConfirmation mails the email-change confirmation link
func (m *SMTPMailer) SendEmailChangeConfirmation(ctx context.Context, to, link string) error {
	return m.sendTemplate(ctx, to, "Подтверждение смены почты", "email_change.html", map[string]string{
		"Link": link,
	})
}

// SendPasswordResetConfirmation mails the password-reset confirmation link
func (m *SMTPMailer) SendPasswordResetConfirmation(ctx context.Context, to, link string) error {
	return m.sendTemplate(ctx, to, "Сброс пароля", "password_reset.html", map[string]string{
		"Link": link,
	})
}

func (m *SMTPMailer) sendTemplate(ctx context.Context, to, subject, name string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}

	msg := buildMessage(m.from, to, subject, body.String())
	if err := m.send(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// buildMessage assembles an RFC 5322 message with a UTF-8 subject and
// HTML body.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// Ensure SMTPMailer implements Mailer
var _ appidentity.Mailer = (*SMTPMailer)(nil)
