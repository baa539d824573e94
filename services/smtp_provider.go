package services

import (
	"context"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/google/uuid"

	"volunteer-intake-api/config"
)

// dialSender is the part of *mail.Dialer the provider needs.
type dialSender interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPProvider relays mail through an authenticated SMTP server.
type SMTPProvider struct {
	dialer dialSender
}

func NewSMTPProvider(cfg config.SMTPConfig, timeout time.Duration) *SMTPProvider {
	return &SMTPProvider{dialer: config.NewDialer(cfg, timeout)}
}

func (p *SMTPProvider) Name() string { return config.ProviderSMTP }

// Send runs the dial in its own goroutine so ctx expiry is honoured even when the relay
// hangs; the dialer's own I/O deadline eventually reaps the goroutine.
func (p *SMTPProvider) Send(ctx context.Context, msg *Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, errNoRecipients
	}

	m := buildMailMessage(msg)
	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return Receipt{}, err
		}
		return Receipt{Provider: p.Name(), MessageID: uuid.NewString(), SentAt: time.Now().UTC()}, nil
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}
}
