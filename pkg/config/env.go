package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvAllowFirstTimePatients = "BOOKINGS_ALLOW_FIRST_TIME_PATIENTS"

	EnvKafkaBrokers               = "KAFKA_BROKERS"
	EnvKafkaBookingEventsTopic    = "KAFKA_BOOKING_EVENTS_TOPIC"
	EnvKafkaBookingEventsDLQTopic = "KAFKA_BOOKING_EVENTS_DLQ_TOPIC"
	EnvKafkaConsumerGroup         = "KAFKA_CONSUMER_GROUP"
)
