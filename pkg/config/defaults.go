package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "medbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Observed product behavior: a patient with no booking history is
	// rejected. Flip via BOOKINGS_ALLOW_FIRST_TIME_PATIENTS.
	DefaultAllowFirstTimePatients = false

	DefaultKafkaBookingEventsTopic    = "booking-events"
	DefaultKafkaBookingEventsDLQTopic = "booking-events-dlq"
	DefaultKafkaConsumerGroup         = "medbook-notifier"
)
