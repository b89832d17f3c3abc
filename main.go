// File: remindly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"remindly/config"
	"remindly/handlers"
	"remindly/middleware"
	"remindly/routes"
	"remindly/services/calendar"
	"remindly/services/conversation"
	"remindly/services/intelligence"
	"remindly/services/notification"
	"remindly/utils"
	"remindly/workers"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Generate the availability calendar before serving any traffic.
	calendarStore := calendar.NewStore()
	calendarStore.Generate(
		config.AppConfig.CalendarHorizonDays,
		calendar.DefaultStartHour,
		calendar.DefaultEndHour,
		calendar.DefaultSlotMinutes,
		config.AppConfig.CalendarOccupancy,
	)

	// External collaborators.
	if config.AppConfig.GeminiAPIKey == "" {
		logger.Sugar().Fatal("main: GEMINI_API_KEY is required")
	}
	replyService, err := intelligence.NewGeminiReplyService(
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize reply service: %v", err)
	}

	var smsService notification.SMSService
	if config.AppConfig.SMSGatewayURL != "" {
		smsService = notification.NewGatewaySMSService(
			config.AppConfig.SMSGatewayURL,
			config.AppConfig.SMSFromNumber,
		)
	} else {
		logger.Sugar().Warn("main: no SMS gateway configured, outbound texts will only be logged")
		smsService = notification.NewLogOnlySMSService()
	}

	// Core services.
	conversationEngine := conversation.NewDefaultConversationEngine(calendarStore, replyService, smsService)
	dispatcher := workers.NewSenderDispatcher()

	var deduper utils.EventDeduper
	dedupTTL := time.Duration(config.AppConfig.EventDedupTTLMin) * time.Minute
	if config.AppConfig.EventDedupBackend == "redis" {
		deduper = utils.NewRedisEventDeduper(utils.GetCacheClient(), dedupTTL)
	} else {
		deduper = utils.NewMemoryEventDeduper(dedupTTL)
	}

	workers.InitCalendarRefreshWorker(calendarStore)

	// Handlers.
	webhookHandler := handlers.NewWebhookHandler(conversationEngine, dispatcher, deduper)
	calendarHandler := handlers.NewCalendarHandler(calendarStore)

	handlerBundle := &handlers.HandlerBundle{
		HandleSMSWebhook:       webhookHandler.HandleSMSWebhook,
		GetAppointmentsHandler: calendarHandler.GetAppointmentsHandler,
		GetCalendarHandler:     calendarHandler.GetCalendarHandler,
		GetCalendarDateHandler: calendarHandler.GetCalendarDateHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
