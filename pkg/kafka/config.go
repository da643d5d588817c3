package kafka

import "time"

// Config carries producer and consumer tuning. Brokers come from the service
// configuration; the rest defaults to values that favor delivery over
// latency.
type Config struct {
	Brokers []string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration

	ConsumerMinBytes       int
	ConsumerMaxBytes       int
	ConsumerMaxWait        time.Duration
	ConsumerCommitInterval time.Duration
	ConsumerMaxRetries     int
}

func DefaultConfig(brokers []string) *Config {
	return &Config{
		Brokers: brokers,

		ProducerMaxAttempts:  3,
		ProducerBatchTimeout: 100 * time.Millisecond,

		ConsumerMinBytes:       1,
		ConsumerMaxBytes:       1 * 1024 * 1024,
		ConsumerMaxWait:        500 * time.Millisecond,
		ConsumerCommitInterval: 1 * time.Second,
		ConsumerMaxRetries:     3,
	}
}
