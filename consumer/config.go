// Package consumer provides a Redis Streams consumer that keeps the search
// index in step with record changes.
package consumer

import "time"

// Config holds consumer configuration.
type Config struct {
	// RedisURL is the Redis connection URL.
	RedisURL string
	// GroupName is the consumer group name.
	GroupName string
	// ConsumerName is this consumer's name within the group.
	ConsumerName string
	// StreamKey is the Redis Stream key to consume from.
	StreamKey string
	// BatchSize is the number of messages to read at once.
	BatchSize int64
	// BlockTimeout is how long to block waiting for messages.
	BlockTimeout time.Duration
	// ClaimIdleTime is how long a pending message must sit before this
	// consumer reclaims it.
	ClaimIdleTime time.Duration
	// Enabled determines if the consumer is active.
	Enabled bool
}

// DefaultConfig returns a default consumer configuration.
func DefaultConfig() Config {
	return Config{
		RedisURL:      "redis://localhost:6379",
		GroupName:     "search-highlighter-group",
		ConsumerName:  "search-highlighter-1",
		StreamKey:     "highlighter:events:records",
		BatchSize:     10,
		BlockTimeout:  5 * time.Second,
		ClaimIdleTime: 30 * time.Second,
		Enabled:       false,
	}
}
