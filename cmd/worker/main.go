// The worker binary runs the notification scheduler without the HTTP API,
// for deployments that serve the API separately. Only one process should
// own the schedule; the dedup ledger makes an accidental overlap wasteful
// rather than incorrect.
package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/upkeephq/upkeep-api/internal/config"
	"github.com/upkeephq/upkeep-api/internal/push"
	"github.com/upkeephq/upkeep-api/internal/repository/postgres"
	notificationService "github.com/upkeephq/upkeep-api/internal/service/notification"
	"github.com/upkeephq/upkeep-api/internal/service/scheduler"
	"github.com/upkeephq/upkeep-api/pkg/logger"
	"github.com/upkeephq/upkeep-api/pkg/messaging"
	messagingRedis "github.com/upkeephq/upkeep-api/pkg/messaging/redis"
	"github.com/upkeephq/upkeep-api/pkg/metrics"
)

func setupHealthCheck(log *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error(err, "health check server failed")
			os.Exit(1)
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.FromZerolog(zerolog.New(os.Stdout).With().Timestamp().Logger())

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

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

	m := metrics.NewMetrics("upkeep", "notifications")
	transport := push.NewWebPushTransport(cfg.Push)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	delivery := notificationService.NewDelivery(subscriptionRepo, transport, log, m)
	composer := notificationService.NewComposer(cfg.Push)
	notificationSvc := notificationService.NewService(
		postgres.NewTaskRepository(db),
		postgres.NewEquipmentRepository(db),
		postgres.NewTaskTypeRepository(db),
		postgres.NewNotificationRepository(db),
		delivery,
		composer,
		broker,
		log,
		m,
	)

	sched := scheduler.New(cfg.Scheduler.Schedule, notificationSvc, log)
	if err := sched.Start(); err != nil {
		zlog.Fatal().Err(err).Msg("failed to start scheduler")
	}

	setupHealthCheck(log)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	sched.Stop()
}
