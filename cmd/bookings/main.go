package main

import (
	"medbook/internal/bookings/handler"
	"medbook/internal/bookings/repository"
	"medbook/internal/bookings/service"
	"medbook/internal/bookings/validator"
	"medbook/pkg/app"
	"medbook/pkg/config"
	"medbook/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	bookingService, producer := initServices(cfg)
	if producer != nil {
		defer func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}()
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.BookingService, *kafka.Producer) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	bookingValidator := validator.NewBookingValidator(bookingRepo, cfg)

	var (
		publisher service.EventPublisher
		producer  *kafka.Producer
	)
	if cfg.KafkaEnabled() {
		var err error
		producer, err = kafka.NewProducer(
			kafka.DefaultConfig(cfg.KafkaBrokers),
			cfg.KafkaBookingEventsTopic,
			cfg.KafkaBookingEventsDLQTopic,
		)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		publisher = service.NewKafkaEventPublisher(producer, ServiceName)
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.KafkaBookingEventsTopic)
	} else {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
	}

	bookingService := service.NewBookingService(bookingRepo, bookingValidator, publisher, cfg)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, producer
}
