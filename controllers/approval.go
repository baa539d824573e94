package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-intake-api/models"
	"volunteer-intake-api/monitor"
	"volunteer-intake-api/services"
	"volunteer-intake-api/utils"
	"volunteer-intake-api/web"
)

// Approve notifies the applicant that their application was accepted and issues a digital
// ID. It runs after RequireApprovalToken. The email is not checked against any earlier
// submission and every visit issues a new display ID and new emails.
func (vc *VolunteerController) Approve(c *gin.Context) {
	var action models.ApprovalAction
	_ = c.ShouldBindQuery(&action)
	action.Email = utils.SanitizeInput(action.Email)
	action.Name = utils.SanitizeInput(action.Name)
	action.Interest = utils.SanitizeInput(action.Interest)

	if action.Email == "" {
		monitor.Approvals.WithLabelValues(monitor.ResultInvalid).Inc()
		c.String(http.StatusBadRequest, "Missing applicant email.")
		return
	}

	action.DisplayID = vc.newDisplayID()
	recipient, redirected := vc.applicantRecipient(action.Email)
	if redirected {
		vc.logger.Warn("applicant mail redirected by approval.recipient_override",
			zap.String("applicant", action.Email), zap.String("recipient", recipient))
	}

	cardURL := models.CardURL(publicBaseURL(c, vc.cfg.Server.PublicBaseURL), models.IDCard{
		Email:    action.Email,
		ID:       action.DisplayID,
		Name:     action.Name,
		Interest: action.Interest,
	})

	if err := vc.sendApprovalMail(c.Request.Context(), recipient, action, cardURL); err != nil {
		monitor.Approvals.WithLabelValues(monitor.ResultFailed).Inc()
		c.String(http.StatusInternalServerError, "Admin approved, but failed to notify the applicant.")
		return
	}

	monitor.Approvals.WithLabelValues(monitor.ResultSuccess).Inc()
	vc.logger.Info("approval notification sent",
		zap.String("email", action.Email),
		zap.String("displayId", action.DisplayID),
	)

	c.HTML(http.StatusOK, web.ApprovedPage, gin.H{
		"Email":      action.Email,
		"DisplayID":  action.DisplayID,
		"Recipient":  recipient,
		"Redirected": redirected,
		"CardURL":    cardURL,
		"OrgName":    vc.cfg.Branding.OrgName,
		"Motto":      vc.cfg.Branding.Motto,
	})
}

// applicantRecipient applies approval.recipient_override, if configured.
func (vc *VolunteerController) applicantRecipient(email string) (string, bool) {
	override := strings.TrimSpace(vc.cfg.Approval.RecipientOverride)
	if override == "" {
		return email, false
	}
	return override, true
}

// sendApprovalMail sends the approval notice, then the digital ID. It stops at the first failure.
func (vc *VolunteerController) sendApprovalMail(ctx context.Context, recipient string, action models.ApprovalAction, cardURL string) error {
	org := vc.cfg.Branding.OrgName
	greeting := "Dear Volunteer,"
	if action.Name != "" {
		greeting = fmt.Sprintf("Dear %s,", action.Name)
	}

	approved := services.Notification{
		To:         []string{recipient},
		Subject:    "Congratulations! Your Application has been Approved",
		Heading:    "Welcome to the Foundation",
		Subheading: org,
		Paragraphs: []string{
			greeting,
			fmt.Sprintf("We are pleased to inform you that your application to the <strong>%s</strong> has been reviewed and <strong>APPROVED</strong>.", org),
			"Your profile has been added to our Global Archive, and a coordinator will reach out to you shortly regarding next steps.",
			fmt.Sprintf("Best Regards,\n<strong>The %s Administration Team</strong>", org),
		},
	}
	if _, err := vc.notifier.Notify(ctx, approved); err != nil {
		return err
	}

	digitalID := services.Notification{
		To:         []string{recipient},
		Subject:    fmt.Sprintf("Your Digital Volunteer ID: %s", action.DisplayID),
		Heading:    org,
		Subheading: "Digital Volunteer ID",
		Paragraphs: []string{
			greeting,
			"Your digital volunteer ID card is ready. Open it with the button below and print it, or keep it on your phone.",
		},
		Fields: []services.Field{
			{Label: "Volunteer ID", Value: action.DisplayID},
			{Label: "Name", Value: action.Name},
			{Label: "Email", Value: action.Email},
			{Label: "Interest", Value: action.Interest},
		},
		ButtonText: "Download ID Card",
		ButtonURL:  cardURL,
	}
	_, err := vc.notifier.Notify(ctx, digitalID)
	return err
}
