package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/store/backend/internal/infrastructure/config"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  []byte
}

func newRecordingMailer(t *testing.T, sent *[]sentMail) *SMTPMailer {
	t.Helper()
	mailer, err := NewSMTPMailer(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	})
	require.NoError(t, err)
	mailer.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		*sent = append(*sent, sentMail{addr: addr, from: from, to: to, msg: msg})
		return nil
	}
	return mailer
}

func TestSMTPMailer_SendPartnerCredentials(t *testing.T) {
	var sent []sentMail
	mailer := newRecordingMailer(t, &sent)

	err := mailer.SendPartnerCredentials(context.Background(), "partner@example.com", "partner@example.com", "p4ssw0rd")
	require.NoError(t, err)

	require.Len(t, sent, 1)
	assert.Equal(t, "smtp.example.com:587", sent[0].addr)
	assert.Equal(t, "noreply@example.com", sent[0].from)
	assert.Equal(t, []string{"partner@example.com"}, sent[0].to)
	assert.Contains(t, string(sent[0].msg), "p4ssw0rd")
	assert.Contains(t, string(sent[0].msg), "Content-Type: text/html")
}

func TestSMTPMailer_SendConfirmationLinks(t *testing.T) {
	var sent []sentMail
	mailer := newRecordingMailer(t, &sent)
	ctx := context.Background()

	require.NoError(t, mailer.SendEmailChangeConfirmation(ctx, "a@example.com", "https://shop.example.com/confirm?token=abc"))
	require.NoError(t, mailer.SendPasswordResetConfirmation(ctx, "a@example.com", "https://shop.example.com/reset?token=def"))

	require.Len(t, sent, 2)
	assert.Contains(t, string(sent[0].msg), "token=abc")
	assert.Contains(t, string(sent[1].msg), "token=def")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	var sent []sentMail
	mailer := newRecordingMailer(t, &sent)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := mailer.SendPartnerCredentials(ctx, "partner@example.com", "login", "password")
	assert.Error(t, err)
	assert.Empty(t, sent)
}
