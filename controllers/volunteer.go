package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-intake-api/models"
	"volunteer-intake-api/monitor"
	"volunteer-intake-api/services"
	"volunteer-intake-api/utils"
)

// multipartMemory is how much of a form is held in memory before spilling to disk.
const multipartMemory = 8 << 20

// SubmitVolunteer accepts an application form with a passport photo and forwards it to the
// administrator for approval.
func (vc *VolunteerController) SubmitVolunteer(c *gin.Context) {
	sub, err := vc.bindSubmission(c)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			monitor.Submissions.WithLabelValues(monitor.ResultInvalid).Inc()
			vc.logger.Info("submission rejected", zap.String("code", string(verr.Code)))
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": verr.Message})
			return
		}
		monitor.Submissions.WithLabelValues(monitor.ResultFailed).Inc()
		vc.logger.Error("submission could not be read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to read submission."})
		return
	}

	photoPath, err := vc.storePhoto(c, sub)
	if err != nil {
		monitor.Submissions.WithLabelValues(monitor.ResultFailed).Inc()
		vc.logger.Error("failed to store photo", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to save photo."})
		return
	}
	defer vc.removePhoto(photoPath)

	approveLink := models.ApprovalURL(
		publicBaseURL(c, vc.cfg.Server.PublicBaseURL),
		sub.Email, vc.cfg.Approval.Token, sub.FullName, sub.Interest,
	)

	if _, err := vc.notifier.Notify(c.Request.Context(), vc.adminNotification(sub, approveLink, photoPath)); err != nil {
		monitor.Submissions.WithLabelValues(monitor.ResultFailed).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Email failed to send."})
		return
	}

	monitor.Submissions.WithLabelValues(monitor.ResultSuccess).Inc()
	vc.logger.Info("application sent", zap.String("fullName", sub.FullName), zap.String("email", sub.Email))

	vc.alerts.NotifyAdmins(c.Request.Context(),
		fmt.Sprintf("New volunteer application: %s <%s>, interest: %s", sub.DisplayName(), sub.Email, orNA(sub.Interest)))
	vc.alerts.NotifyApplicant(c.Request.Context(), sub.Phone,
		fmt.Sprintf("%s: we received your volunteer application and will be in touch by email.", vc.cfg.Branding.OrgName))

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Application received"})
}

// bindSubmission reads and validates the form. Nothing is written to disk here.
func (vc *VolunteerController) bindSubmission(c *gin.Context) (*models.Submission, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, services.NewValidationError(services.ErrCodeBodyTooLarge, "Request body is too large.")
		}
		return nil, services.NewValidationError(services.ErrCodePhotoMissing, "No passport photo uploaded.")
	}

	file, err := c.FormFile(models.PhotoFormField)
	if err != nil || file == nil {
		return nil, services.NewValidationError(services.ErrCodePhotoMissing, "No passport photo uploaded.")
	}
	if file.Size > vc.cfg.Server.MaxUploadBytes {
		return nil, services.NewValidationError(services.ErrCodePhotoTooLarge,
			fmt.Sprintf("Photo exceeds the %d MB limit.", vc.cfg.Server.MaxUploadBytes>>20))
	}
	if _, ok := utils.PhotoExtension(file.Filename); !ok {
		return nil, services.NewValidationError(services.ErrCodePhotoType, "Photo must be a JPG, PNG or WEBP image.")
	}

	var sub models.Submission
	if err := c.ShouldBind(&sub); err != nil {
		return nil, services.NewValidationError(services.ErrCodeEmailMissing, "Invalid form data.")
	}
	sub.Normalize()
	sub.Photo = file

	if sub.Email == "" {
		return nil, services.NewValidationError(services.ErrCodeEmailMissing, "Email is required.")
	}
	if !utils.ValidateEmail(sub.Email) {
		return nil, services.NewValidationError(services.ErrCodeEmailInvalid, "Invalid email format.")
	}
	return &sub, nil
}

// storePhoto saves the upload under a name unique to this request.
func (vc *VolunteerController) storePhoto(c *gin.Context, sub *models.Submission) (string, error) {
	dir := vc.cfg.Server.UploadDir
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	ext, _ := utils.PhotoExtension(sub.Photo.Filename)
	dst := filepath.Join(dir, utils.TempPhotoName(vc.now(), ext))

	if err := c.SaveUploadedFile(sub.Photo, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// removePhoto is best effort: a failure is logged and never affects the response.
func (vc *VolunteerController) removePhoto(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		vc.logger.Warn("error deleting temp photo", zap.String("path", path), zap.Error(err))
		return
	}
	vc.logger.Debug("deleted temp photo", zap.String("path", path))
}

func (vc *VolunteerController) adminNotification(sub *models.Submission, approveLink, photoPath string) services.Notification {
	ext, _ := utils.PhotoExtension(sub.Photo.Filename)
	return services.Notification{
		To:         []string{vc.cfg.Mail.AdminRecipient},
		Subject:    fmt.Sprintf("New Volunteer Credentials: %s", sub.DisplayName()),
		Heading:    vc.cfg.Branding.OrgName,
		Subheading: "Volunteer Registration Archive",
		Fields: []services.Field{
			{Label: "Full Name", Value: sub.FullName},
			{Label: "Date of Birth", Value: sub.DateOfBirth},
			{Label: "Email", Value: sub.Email},
			{Label: "Phone", Value: sub.Phone},
			{Label: "Nationality", Value: sub.Nationality},
			{Label: "Language", Value: sub.Language},
			{Label: "Interest", Value: sub.Interest},
			{Label: "Transport", Value: sub.Transport},
			{Label: "Criminal Record", Value: sub.CriminalRecord},
			{Label: "Motivation", Value: sub.Motivation, Quote: true},
		},
		ButtonText:  "Approve Volunteer",
		ButtonURL:   approveLink,
		Attachments: []services.Attachment{{Path: photoPath, Name: "passport" + ext}},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
