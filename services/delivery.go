package services

import (
	"bytes"
	"context"
	"errors"
	"time"

	mail "github.com/go-mail/mail/v2"
)

// Attachment is a file on local disk that should travel with a message.
type Attachment struct {
	Path string
	Name string // shown to the recipient; defaults to the file's base name
}

// Message is one outbound email, already rendered.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Receipt describes an accepted message.
type Receipt struct {
	Provider  string
	MessageID string
	SentAt    time.Time
}

// Provider is an external delivery capability. Send makes at most one attempt.
type Provider interface {
	Name() string
	Send(ctx context.Context, msg *Message) (Receipt, error)
}

var errNoRecipients = errors.New("message has no recipients")

// buildMailMessage converts msg into a go-mail message. Both the SMTP relay and the raw SES
// path share it so attachments encode identically.
func buildMailMessage(msg *Message) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		if a.Name != "" {
			m.Attach(a.Path, mail.Rename(a.Name))
			continue
		}
		m.Attach(a.Path)
	}
	return m
}

// renderMIME serialises msg into RFC 5322 bytes.
func renderMIME(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buildMailMessage(msg).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
