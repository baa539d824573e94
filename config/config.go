package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderSMTP = "smtp"
	ProviderSES  = "ses"
	ProviderLog  = "log"
)

// Config is the process configuration, loaded once at startup and passed down explicitly.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Approval ApprovalConfig `mapstructure:"approval"`
	Mail     MailConfig     `mapstructure:"mail"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	Branding BrandingConfig `mapstructure:"branding"`
	Card     CardConfig     `mapstructure:"card"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Monitor  MonitorConfig  `mapstructure:"monitor"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	GinMode        string        `mapstructure:"gin_mode"`
	PublicBaseURL  string        `mapstructure:"public_base_url"`
	UploadDir      string        `mapstructure:"upload_dir"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// ApprovalConfig holds the shared approval secret. RecipientOverride, when set,
// redirects applicant mail to a fixed address (staging only).
type ApprovalConfig struct {
	Token             string `mapstructure:"token"`
	RecipientOverride string `mapstructure:"recipient_override"`
}

type MailConfig struct {
	Provider       string        `mapstructure:"provider"`
	From           string        `mapstructure:"from"`
	FromName       string        `mapstructure:"from_name"`
	AdminRecipient string        `mapstructure:"admin_recipient"`
	Timeout        time.Duration `mapstructure:"timeout"`
	SMTP           SMTPConfig    `mapstructure:"smtp"`
	SES            SESConfig     `mapstructure:"ses"`
}

type SMTPConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Pass          string `mapstructure:"pass"`
	SkipTLSVerify bool   `mapstructure:"skip_tls_verify"`
}

type SESConfig struct {
	Region string `mapstructure:"region"`
}

type AlertsConfig struct {
	SMSEnabled       bool   `mapstructure:"sms_enabled"`
	SNSRegion        string `mapstructure:"sns_region"`
	DiscordBotToken  string `mapstructure:"discord_bot_token"`
	DiscordChannelID string `mapstructure:"discord_channel_id"`
}

type BrandingConfig struct {
	OrgName  string `mapstructure:"org_name"`
	Motto    string `mapstructure:"motto"`
	LogoURL  string `mapstructure:"logo_url"`
	IDPrefix string `mapstructure:"id_prefix"`
}

type CardConfig struct {
	QRAPIURL string `mapstructure:"qr_api_url"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

type MonitorConfig struct {
	Token string `mapstructure:"token"`
}

// SenderIdentity renders the From header, e.g. "Onakpa Emmanuel Foundation <no-reply@oef.org>".
func (m MailConfig) SenderIdentity() string {
	name := strings.TrimSpace(m.FromName)
	if name == "" {
		return m.From
	}
	return fmt.Sprintf("%q <%s>", name, m.From)
}

// Load reads .env, config.yaml and the environment, in that order of precedence (lowest first).
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return LoadFrom(v)
}

// LoadFrom unmarshals configuration from an already prepared viper instance.
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Every key needs a default: viper only consults the environment for keys it already knows.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "debug")
	v.SetDefault("server.public_base_url", "")
	v.SetDefault("server.upload_dir", "./uploads")
	v.SetDefault("server.max_upload_bytes", 15<<20)
	v.SetDefault("server.max_body_bytes", 20<<20)
	v.SetDefault("server.allowed_origins", "*")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "90s")

	v.SetDefault("approval.token", "")
	v.SetDefault("approval.recipient_override", "")

	v.SetDefault("mail.provider", ProviderSMTP)
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.from_name", "Onakpa Emmanuel Foundation")
	v.SetDefault("mail.admin_recipient", "")
	v.SetDefault("mail.timeout", "30s")
	v.SetDefault("mail.smtp.host", "")
	v.SetDefault("mail.smtp.port", 587)
	v.SetDefault("mail.smtp.user", "")
	v.SetDefault("mail.smtp.pass", "")
	v.SetDefault("mail.smtp.skip_tls_verify", false)
	v.SetDefault("mail.ses.region", "us-east-1")

	v.SetDefault("alerts.sms_enabled", false)
	v.SetDefault("alerts.sns_region", "us-east-1")
	v.SetDefault("alerts.discord_bot_token", "")
	v.SetDefault("alerts.discord_channel_id", "")

	v.SetDefault("branding.org_name", "Onakpa Emmanuel Foundation")
	v.SetDefault("branding.motto", "...we split the seas, so you can walk right through it")
	v.SetDefault("branding.logo_url", "")
	v.SetDefault("branding.id_prefix", "OEF")

	v.SetDefault("card.qr_api_url", "https://api.qrserver.com/v1/create-qr-code/?size=150x150&data=")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", filepath.Join("logs", "volunteer-api.log"))

	v.SetDefault("monitor.token", "")
}

func (c *Config) validate() error {
	var errs []error

	if strings.TrimSpace(c.Approval.Token) == "" {
		errs = append(errs, errors.New("approval.token (APPROVAL_TOKEN) is required"))
	}
	if strings.TrimSpace(c.Mail.AdminRecipient) == "" {
		errs = append(errs, errors.New("mail.admin_recipient (MAIL_ADMIN_RECIPIENT) is required"))
	}

	switch c.Mail.Provider {
	case ProviderSMTP:
		if c.Mail.SMTP.Host == "" || c.Mail.From == "" {
			errs = append(errs, errors.New("smtp provider requires mail.smtp.host and mail.from"))
		}
	case ProviderSES:
		if c.Mail.From == "" {
			errs = append(errs, errors.New("ses provider requires mail.from"))
		}
	case ProviderLog:
	default:
		errs = append(errs, fmt.Errorf("unknown mail.provider %q", c.Mail.Provider))
	}

	if c.Mail.Timeout <= 0 {
		errs = append(errs, errors.New("mail.timeout must be positive"))
	}
	if c.Server.MaxUploadBytes <= 0 || c.Server.MaxBodyBytes < c.Server.MaxUploadBytes {
		errs = append(errs, errors.New("server.max_body_bytes must be >= server.max_upload_bytes > 0"))
	}
	if (c.Alerts.DiscordBotToken == "") != (c.Alerts.DiscordChannelID == "") {
		errs = append(errs, errors.New("alerts.discord_bot_token and alerts.discord_channel_id must be set together"))
	}

	return errors.Join(errs...)
}

// loadEnvFile looks for a .env in the working directory and up to the module root.
func loadEnvFile() {
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
