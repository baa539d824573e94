package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"volunteer-intake-api/config"
)

// LogProvider does not deliver anything; it records the message in the log. Useful for local
// development when no relay credentials are at hand.
type LogProvider struct {
	logger *zap.Logger
}

func NewLogProvider(logger *zap.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Name() string { return config.ProviderLog }

func (p *LogProvider) Send(ctx context.Context, msg *Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, errNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	attachments := make([]string, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, a.Path)
	}

	id := uuid.NewString()
	p.logger.Info("email (log provider)",
		zap.String("messageId", id),
		zap.String("from", msg.From),
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Strings("attachments", attachments),
		zap.Int("htmlBytes", len(msg.HTML)),
	)
	return Receipt{Provider: p.Name(), MessageID: id, SentAt: time.Now().UTC()}, nil
}
