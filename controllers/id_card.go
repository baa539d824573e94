package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"volunteer-intake-api/models"
	"volunteer-intake-api/utils"
	"volunteer-intake-api/web"
)

// DownloadID renders a printable ID card for whatever email and id are in the query.
// Nothing is verified; a missing id gets a freshly generated one.
func (vc *VolunteerController) DownloadID(c *gin.Context) {
	var card models.IDCard
	_ = c.ShouldBindQuery(&card)
	card.Email = utils.SanitizeInput(card.Email)
	card.ID = utils.SanitizeInput(card.ID)
	card.Name = utils.SanitizeInput(card.Name)
	card.Interest = utils.SanitizeInput(card.Interest)

	if card.ID == "" {
		card.ID = vc.newDisplayID()
	}

	c.HTML(http.StatusOK, web.IDCardPage, gin.H{
		"Email":    card.Email,
		"ID":       card.ID,
		"Name":     card.Name,
		"Interest": card.Interest,
		"QRURL":    vc.qrURL(card.ID),
		"OrgName":  vc.cfg.Branding.OrgName,
		"Motto":    vc.cfg.Branding.Motto,
		"LogoURL":  firstLogoURL(vc.cfg.Branding.LogoURL),
	})
}
