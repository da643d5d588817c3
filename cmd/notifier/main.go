package main

import (
	"context"
	"os/signal"
	"syscall"

	"medbook/internal/notifier"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)

	if !cfg.KafkaEnabled() {
		cfg.Log.Fatal("Notifier requires Kafka brokers", "env", config.EnvKafkaBrokers)
	}

	eventHandler := notifier.NewEventHandler(notifier.NewLogNotifier(cfg.Log), cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafka.DefaultConfig(cfg.KafkaBrokers),
		cfg.KafkaBookingEventsTopic,
		cfg.KafkaConsumerGroup,
		cfg.KafkaBookingEventsDLQTopic,
		eventHandler.Handle,
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka consumer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier",
		"topic", cfg.KafkaBookingEventsTopic,
		"group", cfg.KafkaConsumerGroup,
	)

	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Fatal("Consumer stopped unexpectedly", "error", err)
	}

	cfg.Log.Info("Notifier stopped")
}
