package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/monitor"
)

const alertTimeout = 10 * time.Second

// Alerter is a best-effort side channel. Errors are reported to the caller for logging only.
type Alerter interface {
	Channel() string
	Alert(ctx context.Context, recipient, text string) error
}

// SNSService is the subset of the SNS client used here.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSTexter sends SMS through Amazon SNS. recipient is an E.164 phone number.
type SNSTexter struct {
	client SNSService
}

func NewSNSTexter(ctx context.Context, region string) (*SNSTexter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SNSTexter{client: sns.NewFromConfig(awsCfg)}, nil
}

func NewSNSTexterWithClient(client SNSService) *SNSTexter {
	return &SNSTexter{client: client}
}

func (t *SNSTexter) Channel() string { return "sms" }

func (t *SNSTexter) Alert(ctx context.Context, recipient, text string) error {
	phone := normalizePhone(recipient)
	if phone == "" {
		return fmt.Errorf("no usable phone number in %q", recipient)
	}
	_, err := t.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(text),
	})
	return err
}

// normalizePhone keeps a leading '+' and digits; anything shorter than 7 digits is rejected.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(strings.TrimPrefix(out, "+")) < 7 {
		return ""
	}
	return out
}

// discordMessenger is the part of *discordgo.Session used to post messages.
type discordMessenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordAlerter posts to a fixed administrators' channel; the recipient argument is ignored.
type DiscordAlerter struct {
	session   discordMessenger
	channelID string
}

// NewDiscordAlerter only uses the REST API, so the session is never opened.
func NewDiscordAlerter(botToken, channelID string) (*DiscordAlerter, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordAlerter{session: session, channelID: channelID}, nil
}

func (d *DiscordAlerter) Channel() string { return "discord" }

func (d *DiscordAlerter) Alert(ctx context.Context, _ string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.session.ChannelMessageSend(d.channelID, text, discordgo.WithContext(ctx))
	return err
}

// Alerts fans a message out to the configured side channels.
type Alerts struct {
	applicant []Alerter
	admin     []Alerter
	logger    *zap.Logger
}

// NewAlerts wires the optional channels enabled in cfg. A channel that fails to initialise
// is logged and skipped.
func NewAlerts(ctx context.Context, cfg config.AlertsConfig, logger *zap.Logger) *Alerts {
	a := &Alerts{logger: logger}
	if cfg.SMSEnabled {
		texter, err := NewSNSTexter(ctx, cfg.SNSRegion)
		if err != nil {
			logger.Warn("sms alerts disabled", zap.Error(err))
		} else {
			a.applicant = append(a.applicant, texter)
		}
	}
	if cfg.DiscordBotToken != "" && cfg.DiscordChannelID != "" {
		alerter, err := NewDiscordAlerter(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			logger.Warn("discord alerts disabled", zap.Error(err))
		} else {
			a.admin = append(a.admin, alerter)
		}
	}
	return a
}

func NewAlertsWith(applicant, admin []Alerter, logger *zap.Logger) *Alerts {
	return &Alerts{applicant: applicant, admin: admin, logger: logger}
}

// NotifyApplicant sends text to the applicant's phone on every applicant channel.
func (a *Alerts) NotifyApplicant(ctx context.Context, phone, text string) {
	if a == nil || strings.TrimSpace(phone) == "" {
		return
	}
	a.fanOut(ctx, a.applicant, phone, text)
}

// NotifyAdmins sends text to every administrator channel.
func (a *Alerts) NotifyAdmins(ctx context.Context, text string) {
	if a == nil {
		return
	}
	a.fanOut(ctx, a.admin, "", text)
}

func (a *Alerts) fanOut(ctx context.Context, channels []Alerter, recipient, text string) {
	for _, ch := range channels {
		actx, cancel := context.WithTimeout(persistentContext(ctx), alertTimeout)
		err := ch.Alert(actx, recipient, text)
		cancel()
		if err != nil {
			monitor.Alerts.WithLabelValues(ch.Channel(), monitor.ResultFailed).Inc()
			if a.logger != nil {
				a.logger.Warn("alert failed", zap.String("channel", ch.Channel()), zap.Error(err))
			}
			continue
		}
		monitor.Alerts.WithLabelValues(ch.Channel(), monitor.ResultSuccess).Inc()
	}
}
