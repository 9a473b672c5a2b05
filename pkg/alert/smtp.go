package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPMailer sends messages through an SMTP relay over implicit TLS
// (SMTPS, port 465 by default) with PLAIN authentication.
type SMTPMailer struct {
	Host    string
	Port    int
	Timeout time.Duration
}

// NewSMTPMailer creates an SMTPS mailer.
func NewSMTPMailer(host string, port int, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{
		Host:    host,
		Port:    port,
		Timeout: timeout,
	}
}

// Send dials the relay, authenticates and sends a single message.
func (m *SMTPMailer) Send(ctx context.Context, auth Auth, msg Message) error {
	mm, err := buildMessage(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(auth.Username),
		mail.WithPassword(auth.Password),
	}
	if m.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.Timeout))
	}

	client, err := mail.NewClient(m.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client for %s:%d: %w", m.Host, m.Port, err)
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send via %s:%d: %w", m.Host, m.Port, err)
	}
	return nil
}

// buildMessage converts a Message into a plain-text MIME message.
func buildMessage(msg Message) (*mail.Msg, error) {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid receiver address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)
	return mm, nil
}
