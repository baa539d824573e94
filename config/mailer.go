package config

import (
	"crypto/tls"
	"time"

	mail "github.com/go-mail/mail/v2"
)

// NewDialer returns an SMTP dialer for the relay described by cfg.
func NewDialer(cfg SMTPConfig, timeout time.Duration) *mail.Dialer {
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	d := mail.NewDialer(cfg.Host, port, cfg.User, cfg.Pass)

	// Gmail and Office365 both require STARTTLS on 587.
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the relay hostname, e.g. "smtp.gmail.com".
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify, // dev only
	}

	if timeout > 0 {
		d.Timeout = timeout
	}
	d.RetryFailure = false
	return d
}
