package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	invoicehandler "invoicer/internal/invoice/handler"
	"invoicer/internal/invoice/service"
	"invoicer/internal/invoice/store"
	"invoicer/internal/notification"
	"invoicer/internal/notification/consumer"
	"invoicer/internal/notification/dedup"
	notificationhandler "invoicer/internal/notification/handler"
	"invoicer/internal/platform/config"
	"invoicer/internal/platform/httpserver"
	"invoicer/internal/platform/logger"
	"invoicer/internal/platform/metrics"
	"invoicer/internal/platform/postgres"
	platformredis "invoicer/internal/platform/redis"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := newStore(ctx, cfg.Database)
	if err != nil {
		log.Error("store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New()

	svc := service.New(st, nil, log, service.WithMetrics(m))
	notifier, err := newNotifier(ctx, cfg.Notifier, svc, log)
	if err != nil {
		log.Error("notifier setup failed", "error", err)
		os.Exit(1)
	}
	svc.SetNotifier(notifier)

	// Guards stay nil interfaces when Redis is not configured.
	var webhookGuard notificationhandler.EventGuard
	var consumerGuard consumer.EventGuard
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		guard := dedup.NewGuard(redisClient.Client, cfg.Redis.EventTTL)
		webhookGuard, consumerGuard = guard, guard
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID", "X-Event-ID"},
	}))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	invoicehandler.New(svc, log, m).Register(router)
	notificationhandler.New(svc, webhookGuard, log).Register(router)

	srv := httpserver.New(cfg.Server.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting invoicer", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		deliveries, err := consumer.New(consumer.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Group:   cfg.Kafka.Group,
		}, svc, consumerGuard, log)
		if err != nil {
			log.Error("kafka consumer setup failed", "error", err)
			os.Exit(1)
		}
		group.Go(func() error {
			log.Info("starting delivery consumer", "topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
			if err := deliveries.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// newStore selects the invoice store from configuration.
func newStore(ctx context.Context, cfg config.Database) (store.Store, func(), error) {
	switch cfg.Driver {
	case "postgres":
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store.NewPostgres(db), func() { db.Close() }, nil
	default:
		return store.NewInMemory(), func() {}, nil
	}
}

// newNotifier selects the outbound sender from configuration. The simulator
// wraps the log sender and feeds confirmations back into the service, which
// makes the full lifecycle observable without a mail provider.
func newNotifier(ctx context.Context, cfg config.Notifier, confirmer notification.Confirmer, log *slog.Logger) (service.Notifier, error) {
	switch cfg.Driver {
	case "ses":
		return notification.NewSESNotifier(ctx, notification.SESConfig{
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
			Sender:    cfg.Sender,
		})
	case "log":
		return notification.NewLogNotifier(log), nil
	default:
		inner := notification.NewLogNotifier(log)
		return notification.NewWebhookSimulator(inner, confirmer, cfg.SimulatorDelay, log), nil
	}
}
