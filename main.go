package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moim/config"
	"moim/cron"
	"moim/database"
	appointmentRepoPkg "moim/database/repository/appointment"
	userRepoPkg "moim/database/repository/user"
	"moim/handlers"
	"moim/routes"
	"moim/services/appointment"
	"moim/services/calendar"
	"moim/services/schedule"
	"moim/services/user"
	"moim/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	apptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()

	// services.
	calendarService := calendar.NewGoogleCalendarService()
	analyzer := schedule.NewAnalyzer(calendarService, config.AppConfig.DefaultTimezone)

	userService := &user.DefaultUserService{
		Repo:     userRepo,
		Calendar: calendarService,
	}

	resyncClient := cron.NewResyncClient()
	defer resyncClient.Close()

	appointmentService := &appointment.DefaultAppointmentService{
		Repo:     apptRepo,
		UserRepo: userRepo,
		Analyzer: analyzer,
		Calendar: calendarService,
		Cache:    utils.GetCacheClient(),
		Tasks:    resyncClient,
	}

	// Background availability resync worker.
	cron.InitResyncWorker(appointmentService)

	utils.StartHealthMonitor(
		map[string]*redis.Client{
			"cache": utils.GetCacheClient(),
			"auth":  utils.GetAuthCacheClient(),
		},
		database.MongoClient,
	)

	handlerBundle := &handlers.HandlerBundle{
		User:        &handlers.UserHandler{Service: userService},
		Appointment: &handlers.AppointmentHandler{Service: appointmentService},
		Calendar:    &handlers.CalendarHandler{Users: userService, Calendar: calendarService},
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
