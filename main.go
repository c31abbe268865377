// File: tablevoice/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tablevoice/config"
	"tablevoice/cron"
	"tablevoice/database"
	reservationRepo "tablevoice/database/repository/reservation"
	"tablevoice/handlers"
	"tablevoice/middleware"
	"tablevoice/routes"
	"tablevoice/services/dialogue"
	"tablevoice/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories and stores.
	resRepo := reservationRepo.NewMongoReservationRepo()
	sessionStore := dialogue.NewRedisSessionStore(utils.GetSessionCacheClient())
	reminderQueue := cron.NewReminderQueue()

	// Services.
	dialogueService := &dialogue.DefaultDialogueService{
		Store:     sessionStore,
		Repo:      resRepo,
		Reminders: reminderQueue,
		Opts:      dialogue.OptionsFromConfig(),
		Logger:    logger,
	}

	// Handlers.
	voiceHandler := handlers.NewVoiceHandler(dialogueService, logger)
	reservationHandler := handlers.NewReservationHandler(resRepo, reminderQueue, logger)

	routes.RegisterRoutes(router, voiceHandler, reservationHandler)

	// Reminder worker runs beside the HTTP server.
	cron.InitReminderWorker(resRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
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
