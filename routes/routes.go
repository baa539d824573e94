package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/controllers"
	"volunteer-intake-api/middleware"
	"volunteer-intake-api/monitor"
	"volunteer-intake-api/web"
)

// SetupRoutes mounts every route and the middleware they share on router.
func SetupRoutes(router *gin.Engine, cfg *config.Config, vc *controllers.VolunteerController, logger *zap.Logger) {
	router.SetHTMLTemplate(web.Templates())
	router.MaxMultipartMemory = 8 << 20

	router.Use(middleware.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))

	// Volunteer intake
	router.POST("/submit-volunteer", middleware.LimitRequestBody(cfg.Server.MaxBodyBytes), vc.SubmitVolunteer)

	// Approval link from the administrator email
	router.GET("/approve", middleware.RequireApprovalToken(cfg.Approval.Token, logger), vc.Approve)

	// Printable card, deliberately unauthenticated
	router.GET("/download-id", vc.DownloadID)

	monitor.RegisterRoutes(router, cfg.Monitor.Token, cfg.Logging.File)
}
