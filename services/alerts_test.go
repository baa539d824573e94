package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockSNSService struct {
	mock.Mock
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

type MockDiscordSession struct {
	mock.Mock
}

func (m *MockDiscordSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	args := m.Called(channelID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discordgo.Message), args.Error(1)
}

type recordingAlerter struct {
	channel string
	err     error
	got     []string
}

func (r *recordingAlerter) Channel() string { return r.channel }

func (r *recordingAlerter) Alert(_ context.Context, recipient, text string) error {
	r.got = append(r.got, recipient+"|"+text)
	return r.err
}

// ==========================
// SMS
// ==========================

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "+234 803 123 4567", want: "+2348031234567"},
		{in: "(555) 123-4567", want: "5551234567"},
		{in: "  +1-555-0100  ", want: "+15550100"},
		{in: "12+34", want: ""},
		{in: "", want: ""},
		{in: "call me", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePhone(tt.in))
		})
	}
}

func TestSNSTexter_Alert(t *testing.T) {
	client := new(MockSNSService)
	client.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+2348031234567" && aws.ToString(in.Message) == "hello"
	})).Return(&sns.PublishOutput{MessageId: aws.String("sns-1")}, nil)

	texter := NewSNSTexterWithClient(client)
	require.NoError(t, texter.Alert(context.Background(), "+234 803 123 4567", "hello"))
	client.AssertExpectations(t)
}

func TestSNSTexter_RejectsUnusableNumber(t *testing.T) {
	client := new(MockSNSService)
	texter := NewSNSTexterWithClient(client)

	assert.Error(t, texter.Alert(context.Background(), "n/a", "hello"))
	client.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// ==========================
// Discord
// ==========================

func TestDiscordAlerter_Alert(t *testing.T) {
	session := new(MockDiscordSession)
	session.On("ChannelMessageSend", "chan-1", "New volunteer application").Return(&discordgo.Message{ID: "m1"}, nil)

	alerter := &DiscordAlerter{session: session, channelID: "chan-1"}
	require.NoError(t, alerter.Alert(context.Background(), "ignored", "New volunteer application"))
	session.AssertExpectations(t)
}

func TestDiscordAlerter_CancelledContext(t *testing.T) {
	session := new(MockDiscordSession)
	alerter := &DiscordAlerter{session: session, channelID: "chan-1"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, alerter.Alert(ctx, "", "text"), context.Canceled)
	session.AssertNotCalled(t, "ChannelMessageSend", mock.Anything, mock.Anything)
}

// ==========================
// Fan-out
// ==========================

func TestAlerts_FanOutContinuesPastFailures(t *testing.T) {
	broken := &recordingAlerter{channel: "sms", err: errors.New("throttled")}
	working := &recordingAlerter{channel: "sms"}
	admin := &recordingAlerter{channel: "discord"}

	alerts := NewAlertsWith([]Alerter{broken, working}, []Alerter{admin}, zap.NewNop())

	alerts.NotifyApplicant(context.Background(), "+15550100", "received")
	alerts.NotifyAdmins(context.Background(), "new application")

	assert.Equal(t, []string{"+15550100|received"}, broken.got)
	assert.Equal(t, []string{"+15550100|received"}, working.got)
	assert.Equal(t, []string{"|new application"}, admin.got)
}

func TestAlerts_SkipsApplicantWithoutPhone(t *testing.T) {
	sms := &recordingAlerter{channel: "sms"}
	alerts := NewAlertsWith([]Alerter{sms}, nil, zap.NewNop())

	alerts.NotifyApplicant(context.Background(), "  ", "received")
	assert.Empty(t, sms.got)
}

func TestAlerts_NilIsNoop(t *testing.T) {
	var alerts *Alerts
	assert.NotPanics(t, func() {
		alerts.NotifyApplicant(context.Background(), "+15550100", "x")
		alerts.NotifyAdmins(context.Background(), "x")
	})
}

// ==========================
// Approval token and display ID
// ==========================

func TestVerifyApprovalToken(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		provided string
		wantErr  bool
	}{
		{name: "match", secret: "s3cret", provided: "s3cret"},
		{name: "mismatch", secret: "s3cret", provided: "guess", wantErr: true},
		{name: "missing", secret: "s3cret", provided: "", wantErr: true},
		{name: "prefix", secret: "s3cret", provided: "s3cre", wantErr: true},
		{name: "empty secret never matches", secret: "", provided: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyApprovalToken(tt.secret, tt.provided)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsAuthorization(err))
			var aerr *AuthorizationError
			require.True(t, errors.As(err, &aerr))
			assert.Equal(t, ErrCodeTokenInvalid, aerr.Code)
		})
	}
}

func TestNewDisplayIDFunc(t *testing.T) {
	pattern := regexp.MustCompile(`^OEF-\d{4}$`)
	next := NewDisplayIDFunc("")
	for i := 0; i < 200; i++ {
		id := next()
		require.Regexp(t, pattern, id)
	}

	custom := NewDisplayIDFunc(" VOL ")
	assert.Regexp(t, `^VOL-[1-9]\d{3}$`, custom())
}
