// File: wanderstay/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"wanderstay/config"
	"wanderstay/cron"
	"wanderstay/database"
	bookingRepo "wanderstay/database/repository/booking"
	"wanderstay/handlers"
	"wanderstay/middleware"
	"wanderstay/routes"
	"wanderstay/services/booking"
	"wanderstay/services/notification"
	"wanderstay/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Payment trust context, resolved once from the server-held credential.
	env := booking.ResolveEnvironment(config.AppConfig.InventoryAPIKey, logger)
	widgetKey := config.AppConfig.PaymentWidgetSandboxKey
	if env == booking.EnvironmentProduction {
		widgetKey = config.AppConfig.PaymentWidgetProductionKey
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.StorefrontBaseURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// repositories.
	recordsRepo := bookingRepo.NewMongoBookingRepo()

	// notification queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
	})
	defer asynqClient.Close()

	dispatcher := notification.NewAsynqDispatcher(asynqClient)
	sender := notification.NewMailRelaySender(config.AppConfig.MailRelayURL, config.AppConfig.MailFrom)
	stopWorker := cron.InitEmailWorker(sender)

	// booking engine.
	inventoryClient := booking.NewHTTPInventoryClient(
		config.AppConfig.InventoryAPIBaseURL,
		config.AppConfig.InventoryAPIKey,
	)
	holdManager := booking.NewHoldManager(inventoryClient, logger)
	checkpoints := booking.NewRedisCheckpointStore(utils.GetCheckpointCacheClient())
	claimGate := booking.NewRedisClaimGate(utils.GetClaimCacheClient())
	bridge := booking.NewPaymentRedirectBridge(
		claimGate,
		env,
		widgetKey,
		config.AppConfig.StorefrontBaseURL,
		logger,
	)
	confirmer := booking.NewConfirmationService(inventoryClient, env, dispatcher, recordsRepo, logger)
	orchestrator := booking.NewOrchestrator(holdManager, checkpoints, bridge, confirmer, logger)

	bookingHandler := handlers.NewBookingHandler(orchestrator, recordsRepo, logger)

	// Register routes.
	routes.RegisterRoutes(router, bookingHandler)

	utils.StartHealthMonitor(
		utils.GetCheckpointCacheClient(),
		utils.GetClaimCacheClient(),
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s (payment environment: %s)...", srv.Addr, env)
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
	stopWorker()
	database.CloseDB(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
