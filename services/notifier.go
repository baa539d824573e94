package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/monitor"
)

// Notification is a message described by content rather than markup; the Notifier owns the layout.
type Notification struct {
	To          []string
	Subject     string
	Heading     string
	Subheading  string
	Paragraphs  []string
	Fields      []Field
	ButtonText  string
	ButtonURL   string
	Attachments []Attachment
}

// Notifier formats notifications and hands them to a single delivery provider.
type Notifier struct {
	provider Provider
	sender   string
	timeout  time.Duration
	branding Branding
	logger   *zap.Logger
}

func NewNotifier(provider Provider, sender string, timeout time.Duration, branding Branding, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		provider: provider,
		sender:   sender,
		timeout:  timeout,
		branding: branding,
		logger:   logger.With(zap.String("provider", provider.Name())),
	}
}

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderSMTP:
		return NewSMTPProvider(cfg.SMTP, cfg.Timeout), nil
	case config.ProviderSES:
		return NewSESProvider(ctx, cfg.SES)
	case config.ProviderLog:
		return NewLogProvider(logger), nil
	default:
		return nil, &DeliveryError{
			Code:     ErrCodeProviderMisconfig,
			Provider: cfg.Provider,
			Err:      fmt.Errorf("unknown mail provider %q", cfg.Provider),
		}
	}
}

// Render produces the HTML body for n without sending it.
func (n *Notifier) Render(note Notification) string {
	return buildEmailTemplate(n.branding, note.Heading, note.Subheading, note.Paragraphs, note.Fields, note.ButtonText, note.ButtonURL)
}

// Notify renders note and sends it. Any failure comes back as a *DeliveryError.
func (n *Notifier) Notify(ctx context.Context, note Notification) (Receipt, error) {
	return n.Send(ctx, &Message{
		From:        n.sender,
		To:          note.To,
		Subject:     note.Subject,
		HTML:        n.Render(note),
		Attachments: note.Attachments,
	})
}

// Send makes exactly one delivery attempt bounded by the configured timeout. The attempt is
// detached from the caller's cancellation so a client disconnect does not abort a send
// that has already started.
func (n *Notifier) Send(ctx context.Context, msg *Message) (Receipt, error) {
	ctx, cancel := context.WithTimeout(persistentContext(ctx), n.timeout)
	defer cancel()

	start := time.Now()
	receipt, err := n.provider.Send(ctx, msg)
	elapsed := time.Since(start)

	if err != nil {
		var derr *DeliveryError
		result := monitor.ResultFailed
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			derr = newDeliveryTimeout(n.provider.Name(), err)
			result = monitor.ResultTimeout
		} else {
			derr = newDeliveryError(n.provider.Name(), err)
		}
		monitor.ObserveDelivery(n.provider.Name(), result, elapsed)
		n.logger.Error("email delivery failed",
			zap.Strings("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("code", string(derr.Code)),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return Receipt{}, derr
	}

	monitor.ObserveDelivery(n.provider.Name(), monitor.ResultSuccess, elapsed)
	n.logger.Info("email delivered",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("messageId", receipt.MessageID),
		zap.Duration("elapsed", elapsed),
	)
	return receipt, nil
}
