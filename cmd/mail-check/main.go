// Sends a test notification through the configured mail provider.
// cmd/mail-check/main.go
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/services"
)

func main() {
	to := flag.String("to", "", "comma separated recipients; defaults to mail.admin_recipient")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	recipients := []string{cfg.Mail.AdminRecipient}
	if strings.TrimSpace(*to) != "" {
		recipients = strings.Split(*to, ",")
		for i := range recipients {
			recipients[i] = strings.TrimSpace(recipients[i])
		}
	}

	ctx := context.Background()
	provider, err := services.NewProvider(ctx, cfg.Mail, logger)
	if err != nil {
		log.Fatalf("failed to create mail provider: %v", err)
	}

	notifier := services.NewNotifier(provider, cfg.Mail.SenderIdentity(), cfg.Mail.Timeout, services.Branding{
		OrgName: cfg.Branding.OrgName,
		Motto:   cfg.Branding.Motto,
		LogoURL: cfg.Branding.LogoURL,
	}, logger)

	receipt, err := notifier.Notify(ctx, services.Notification{
		To:         recipients,
		Subject:    "Mail check: " + cfg.Branding.OrgName,
		Heading:    cfg.Branding.OrgName,
		Subheading: "Mail Check",
		Paragraphs: []string{"This message confirms that the volunteer intake service can deliver mail."},
		Fields: []services.Field{
			{Label: "Provider", Value: provider.Name()},
			{Label: "Sender", Value: cfg.Mail.SenderIdentity()},
		},
	})
	if err != nil {
		log.Fatalf("❌ delivery via %s failed: %v", provider.Name(), err)
	}

	log.Printf("✅ delivered via %s to %s (message id %s)", receipt.Provider, strings.Join(recipients, ", "), receipt.MessageID)
}
