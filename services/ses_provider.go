package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"volunteer-intake-api/config"
)

// SESService is the subset of the SES client used here; tests substitute a mock.
type SESService interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESProvider sends through Amazon SES. Raw sending is used because the intake
// notification carries the applicant's photo as an attachment.
type SESProvider struct {
	client SESService
}

func NewSESProvider(ctx context.Context, cfg config.SESConfig) (*SESProvider, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESProvider{client: ses.NewFromConfig(awsCfg)}, nil
}

func NewSESProviderWithClient(client SESService) *SESProvider {
	return &SESProvider{client: client}
}

func (p *SESProvider) Name() string { return config.ProviderSES }

func (p *SESProvider) Send(ctx context.Context, msg *Message) (Receipt, error) {
	if len(msg.To) == 0 {
		return Receipt{}, errNoRecipients
	}

	raw, err := renderMIME(msg)
	if err != nil {
		return Receipt{}, fmt.Errorf("render MIME: %w", err)
	}

	out, err := p.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		Destinations: msg.To,
		Source:       aws.String(msg.From),
		RawMessage:   &types.RawMessage{Data: raw},
	})
	if err != nil {
		return Receipt{}, err
	}

	return Receipt{
		Provider:  p.Name(),
		MessageID: aws.ToString(out.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}
