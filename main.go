package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servana/cache"
	"servana/config"
	"servana/cron"
	"servana/database"
	availabilityRepoPkg "servana/database/repository/availability"
	bookingRepoPkg "servana/database/repository/booking"
	catalogRepoPkg "servana/database/repository/catalog"
	chatRepoPkg "servana/database/repository/chat"
	notificationRepoPkg "servana/database/repository/notification"
	userRepoPkg "servana/database/repository/user"
	walletRepoPkg "servana/database/repository/wallet"
	"servana/handlers"
	"servana/realtime"
	"servana/routes"
	availabilitySvc "servana/services/availability"
	bookingSvc "servana/services/booking"
	catalogSvc "servana/services/catalog"
	chatSvc "servana/services/chat"
	notificationSvc "servana/services/notification"
	walletSvc "servana/services/wallet"
	"servana/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	// Mongo.
	client, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := database.Close(client); err != nil {
			logger.Sugar().Warnf("main: mongo disconnect failed: %v", err)
		}
	}()
	db := client.Database(config.AppConfig.DatabaseName)

	// Redis: side-cache, realtime pub/sub and task queue on separate DBs.
	cacheStore := cache.NewStore(cache.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	}, logger)
	defer cacheStore.Close()

	eventClient := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventDB,
	})
	defer eventClient.Close()
	emitter := realtime.NewRedisEmitter(eventClient, logger)

	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer queueClient.Close()

	// Repositories.
	availabilityRepo := availabilityRepoPkg.NewMongoAvailabilityRepo(db)
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo(db)
	chatRepo := chatRepoPkg.NewMongoChatRepo(db)
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	walletRepo := walletRepoPkg.NewMongoWalletRepo(db)
	notificationRepo := notificationRepoPkg.NewMongoNotificationRepo(db)

	indexCtx, cancelIndexes := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelIndexes()
	if err := availabilityRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: availability indexes: %v", err)
	}
	if err := bookingRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: booking indexes: %v", err)
	}
	if err := chatRepo.EnsureIndexes(indexCtx); err != nil {
		logger.Sugar().Fatalf("main: chat indexes: %v", err)
	}

	// Services.
	cacheTTL := time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second
	grid := availabilitySvc.GridConfig{
		OpenHour:    config.AppConfig.DayOpenHour,
		CloseHour:   config.AppConfig.DayCloseHour,
		SlotMinutes: config.AppConfig.SlotMinutes,
	}

	notificationService := notificationSvc.NewDefaultNotificationService(notificationRepo, queueClient, logger)
	ledgerService := availabilitySvc.NewDefaultLedgerService(availabilityRepo, grid, logger)

	catalogService := &catalogSvc.DefaultCatalogService{
		Repo:     catalogRepo,
		Cache:    cacheStore,
		CacheTTL: cacheTTL,
		Logger:   logger,
	}
	bookingService := &bookingSvc.DefaultBookingService{
		Repo:         bookingRepo,
		Ledger:       ledgerService,
		CatalogRepo:  catalogRepo,
		UserRepo:     userRepo,
		Notification: notificationService,
		Logger:       logger,
	}
	chatService := &chatSvc.DefaultChatService{
		Repo:         chatRepo,
		Cache:        cacheStore,
		CacheTTL:     cacheTTL,
		Emitter:      emitter,
		Notification: notificationService,
		Logger:       logger,
	}
	walletService := &walletSvc.DefaultWalletService{
		Repo:         walletRepo,
		BookingRepo:  bookingRepo,
		Notification: notificationService,
		Logger:       logger,
	}

	// Background worker: queued notification delivery and the availability
	// reconciliation sweep.
	cron.InitWorker(cron.WorkerDeps{
		Availability: availabilityRepo,
		Bookings:     bookingRepo,
		Logger:       logger,
	})

	// HTTP layer.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	handlerBundle := &handlers.HandlerBundle{
		Availability:  &handlers.AvailabilityHandler{Ledger: ledgerService},
		Bookings:      &handlers.BookingHandler{Bookings: bookingService, Wallet: walletService},
		Catalog:       &handlers.CatalogHandler{Catalog: catalogService},
		Chat:          &handlers.ChatHandler{Chat: chatService},
		Wallet:        &handlers.WalletHandler{Wallet: walletService},
		Notifications: &handlers.NotificationHandler{Repo: notificationRepo},
		Users:         &handlers.UserHandler{Repo: userRepo},
	}
	routes.RegisterRoutes(router, handlerBundle)

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
