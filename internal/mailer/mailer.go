package mailer

import (
	"context"

	"github.com/wneessen/go-mail"

	"github.com/myhome-api/internal/config"
)

// Mailer sends a rendered HTML email to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPMailer delivers mail over SMTP with STARTTLS.
type SMTPMailer struct {
	client    *mail.Client
	fromName  string
	fromEmail string
}

// NewSMTPMailer creates a mailer from the mail config.
func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, err
	}
	return &SMTPMailer{
		client:    client,
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
	}, nil
}

// Send delivers one message
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.fromEmail); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)
	return m.client.DialAndSendWithContext(ctx, msg)
}
