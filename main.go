package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"glowdesk/config"
	"glowdesk/cron"
	"glowdesk/database"
	"glowdesk/database/repository"
	appointmentRepo "glowdesk/database/repository/appointment"
	catalogRepo "glowdesk/database/repository/catalog"
	"glowdesk/handlers"
	"glowdesk/middleware"
	"glowdesk/routes"
	"glowdesk/services/availability"
	"glowdesk/services/booking"
	"glowdesk/services/dialog"
	"glowdesk/services/intelligence"
	"glowdesk/services/nlu"
	"glowdesk/services/session"
	"glowdesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	location, err := time.LoadLocation(config.AppConfig.SalonTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid SALON_TIMEZONE %q: %v", config.AppConfig.SalonTimezone, err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()
	blockedRepo := repository.NewMongoBlockedRepo()

	// services.
	availabilityEngine := &availability.Engine{
		Appointments: apptRepo,
		Blocked:      blockedRepo,
		Catalog:      catRepo,
		OpenMinute:   config.AppConfig.OpenMinute,
		CloseMinute:  config.AppConfig.CloseMinute,
		SlotInterval: config.AppConfig.SlotIntervalMins,
		Location:     location,
	}

	reminderClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})
	defer reminderClient.Close()

	executor := &booking.DefaultExecutor{
		Repo:         apptRepo,
		Availability: availabilityEngine,
		Reminders:    reminderClient,
		ReminderLead: time.Duration(config.AppConfig.ReminderLeadHours) * time.Hour,
		Location:     location,
	}

	sessions := session.NewRedisStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMins)*time.Minute,
		time.Duration(config.AppConfig.SessionCacheSecs)*time.Second,
		nil,
	)

	parser := &nlu.Parser{
		AssumePMMaxHour:   config.AppConfig.AssumePMMaxHour,
		SpecificityMargin: config.AppConfig.CategorySpecificity,
	}

	dialogEngine := &dialog.Engine{
		Parser:       parser,
		Sessions:     sessions,
		Availability: availabilityEngine,
		Executor:     executor,
		Catalog:      catRepo,
	}

	var assistant intelligence.Assistant = intelligence.Disabled{}
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := intelligence.NewGeminiAssistant(context.Background(), key)
		if err != nil {
			logger.Sugar().Warnf("main: Gemini assistant disabled: %v", err)
		} else {
			assistant = gemini
		}
	}

	// Start the reminder worker.
	cron.InitReminderWorker()

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Chat:         handlers.NewChatHandler(dialogEngine, assistant, sessions),
		Availability: handlers.NewAvailabilityHandler(availabilityEngine),
		Catalog:      handlers.NewCatalogHandler(catRepo),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("Starting server on %s...", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server error: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}
