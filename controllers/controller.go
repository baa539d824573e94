package controllers

import (
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/services"
)

// VolunteerController serves the intake, approval and ID card routes. It holds no
// per-request state; every field is fixed at startup.
type VolunteerController struct {
	cfg          *config.Config
	notifier     *services.Notifier
	alerts       *services.Alerts
	newDisplayID services.DisplayIDFunc
	logger       *zap.Logger
	now          func() time.Time
}

// Dependencies lists what the controller needs. Alerts and DisplayID are optional.
type Dependencies struct {
	Config    *config.Config
	Notifier  *services.Notifier
	Alerts    *services.Alerts
	DisplayID services.DisplayIDFunc
	Logger    *zap.Logger
}

func NewVolunteerController(deps Dependencies) *VolunteerController {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	displayID := deps.DisplayID
	if displayID == nil {
		displayID = services.NewDisplayIDFunc(deps.Config.Branding.IDPrefix)
	}
	return &VolunteerController{
		cfg:          deps.Config,
		notifier:     deps.Notifier,
		alerts:       deps.Alerts,
		newDisplayID: displayID,
		logger:       logger,
		now:          time.Now,
	}
}

func (vc *VolunteerController) qrURL(id string) string {
	if vc.cfg.Card.QRAPIURL == "" {
		return ""
	}
	return vc.cfg.Card.QRAPIURL + url.QueryEscape(id)
}

// firstLogoURL picks the first entry of a comma or semicolon separated logo list.
func firstLogoURL(raw string) string {
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
