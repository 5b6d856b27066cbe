package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/insuracademy/entitlement-engine/internal/cache"
	"github.com/insuracademy/entitlement-engine/internal/config"
	"github.com/insuracademy/entitlement-engine/internal/lib/sl"
	"github.com/insuracademy/entitlement-engine/internal/models"
	"github.com/insuracademy/entitlement-engine/internal/rabbitmq"
	accessservice "github.com/insuracademy/entitlement-engine/internal/services/access"
	billingservice "github.com/insuracademy/entitlement-engine/internal/services/billing"
	"github.com/insuracademy/entitlement-engine/internal/storage/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting billing-consumer", slog.String("env", cfg.Env))

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Error("failed to connect to Redis", sl.Err(err))
		os.Exit(1)
	}

	accessService := accessservice.New(db, cacheRedis, map[string][]models.Requirement{}, logger)
	billingService := billingservice.New(db, accessService, logger)

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to connect to RabbitMQ", slog.String("URL", cfg.RabbitURL))
	defer func() {
		_ = conn.Close()
	}()

	queue := rabbitmq.SubscriptionUpdatesQueue()
	ch, err := rabbitmq.SetupChannel(conn, []rabbitmq.QueueConfig{queue})
	if err != nil {
		logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("success to setup RabbitMQ channel")
	defer func() {
		_ = ch.Close()
	}()

	err = rabbitmq.ConsumerMessage(ctx, ch, queue.QueueName, func(body []byte) error {
		return billingService.HandleMessage(ctx, body)
	})
	if err != nil {
		logger.Error("failed to start consumer", sl.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("billing-consumer shutting down gracefully")
}
