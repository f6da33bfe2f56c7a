package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bookmyappointment/booking-api/internal/cache"
	"github.com/bookmyappointment/booking-api/internal/config"
	dbpkg "github.com/bookmyappointment/booking-api/internal/db"
	"github.com/bookmyappointment/booking-api/internal/logging"
	"github.com/bookmyappointment/booking-api/internal/notify"
	"github.com/bookmyappointment/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()

	logger := logging.New()
	defer logger.Sync()

	db := dbpkg.NewDB(cfg, logger)

	slotCache := cache.NewSlotCache(cfg.RedisURL, logger)

	var sender notify.EmailSender
	if cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, logger)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, using stub email sender")
		sender = notify.NewStubSender(logger)
	}
	notifier := notify.NewService(sender, logger)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Logger:    logger,
		SlotCache: slotCache,
		Notifier:  notifier,
	})

	logger.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
