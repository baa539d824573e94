package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"volunteer-intake-api/config"
	"volunteer-intake-api/controllers"
	"volunteer-intake-api/routes"
	"volunteer-intake-api/services"
	"volunteer-intake-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("❌ Failed to initialise logging: %v", err)
	}
	defer closeLog()

	if cfg.Server.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.Server.UploadDir, os.ModePerm); err != nil {
		logger.Warn("failed to create upload directory", zap.String("path", cfg.Server.UploadDir), zap.Error(err))
	}
	if removed, err := utils.SweepStaleUploads(cfg.Server.UploadDir, time.Hour, time.Now()); err != nil {
		logger.Warn("failed to sweep stale uploads", zap.Error(err))
	} else if len(removed) > 0 {
		logger.Info("removed stale uploads", zap.Int("count", len(removed)))
	}

	ctx := context.Background()
	provider, err := services.NewProvider(ctx, cfg.Mail, logger)
	if err != nil {
		logger.Fatal("failed to initialise mail provider", zap.Error(err))
	}

	notifier := services.NewNotifier(provider, cfg.Mail.SenderIdentity(), cfg.Mail.Timeout, services.Branding{
		OrgName: cfg.Branding.OrgName,
		Motto:   cfg.Branding.Motto,
		LogoURL: cfg.Branding.LogoURL,
	}, logger)

	vc := controllers.NewVolunteerController(controllers.Dependencies{
		Config:    cfg,
		Notifier:  notifier,
		Alerts:    services.NewAlerts(ctx, cfg.Alerts, logger),
		DisplayID: services.NewDisplayIDFunc(cfg.Branding.IDPrefix),
		Logger:    logger,
	})

	router := gin.New()
	routes.SetupRoutes(router, cfg, vc, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("🚀 Server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("mailProvider", provider.Name()),
			zap.String("ginMode", gin.Mode()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Mail.Timeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
