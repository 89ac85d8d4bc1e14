package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/upkeephq/upkeep-api/internal/config"
	healthHandler "github.com/upkeephq/upkeep-api/internal/handler/health"
	notificationHandler "github.com/upkeephq/upkeep-api/internal/handler/notification"
	prometheusHandler "github.com/upkeephq/upkeep-api/internal/handler/prometheus"
	subscriptionHandler "github.com/upkeephq/upkeep-api/internal/handler/subscription"
	"github.com/upkeephq/upkeep-api/internal/push"
	"github.com/upkeephq/upkeep-api/internal/repository/postgres"
	"github.com/upkeephq/upkeep-api/internal/router"
	notificationService "github.com/upkeephq/upkeep-api/internal/service/notification"
	"github.com/upkeephq/upkeep-api/internal/service/scheduler"
	subscriptionService "github.com/upkeephq/upkeep-api/internal/service/subscription"
	"github.com/upkeephq/upkeep-api/pkg/logger"
	"github.com/upkeephq/upkeep-api/pkg/messaging"
	messagingRedis "github.com/upkeephq/upkeep-api/pkg/messaging/redis"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
	"github.com/upkeephq/upkeep-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.FromZerolog(zerolog.New(os.Stdout).With().Timestamp().Logger())

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	taskRepo := postgres.NewTaskRepository(db)
	equipmentRepo := postgres.NewEquipmentRepository(db)
	taskTypeRepo := postgres.NewTaskTypeRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)

	// Optional event broker
	var broker messaging.Broker
	if cfg.Redis.Enabled {
		broker, err = messagingRedis.NewRedisBroker(messagingRedis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, &zlog.Logger)
		if err != nil {
			zlog.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	// Initialize services
	m := metrics.NewMetrics("upkeep", "notifications")
	transport := push.NewWebPushTransport(cfg.Push)
	delivery := notificationService.NewDelivery(subscriptionRepo, transport, log, m)
	composer := notificationService.NewComposer(cfg.Push)
	notificationSvc := notificationService.NewService(
		taskRepo,
		equipmentRepo,
		taskTypeRepo,
		notificationRepo,
		delivery,
		composer,
		broker,
		log,
		m,
	)
	subscriptionSvc := subscriptionService.NewService(subscriptionRepo, m)

	// Initialize scheduler
	sched := scheduler.New(cfg.Scheduler.Schedule, notificationSvc, log)
	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			zlog.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer sched.Stop()
	}

	// Initialize handlers
	notificationH := notificationHandler.NewHandler(notificationSvc, sched)
	subscriptionH := subscriptionHandler.NewHandler(subscriptionSvc, validator.New())
	healthH := healthHandler.NewHandler(db)
	prometheusH := prometheusHandler.New()

	// Setup router
	r := router.NewRouter(cfg, notificationH, subscriptionH, healthH, prometheusH)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "server shutdown failed")
	}
}
