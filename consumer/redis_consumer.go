package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event represents a domain event from the stream.
type Event struct {
	// MessageID is the Redis Stream message ID.
	MessageID string
	// EventID is the unique event identifier.
	EventID string
	// EventType is the type of event.
	EventType string
	// Source is the service that produced the event.
	Source string
	// CreatedAt is when the event was created.
	CreatedAt time.Time
	// Payload is the event-specific data.
	Payload json.RawMessage
	// Metadata contains additional context.
	Metadata map[string]string
}

// EventHandler processes a batch of events read from the stream.
type EventHandler interface {
	// HandleEvents returns one error per event; events with a nil error are
	// acknowledged.
	HandleEvents(ctx context.Context, events []Event) []error
}

// Consumer consumes events from Redis Streams.
type Consumer struct {
	client       *redis.Client
	config       Config
	handler      EventHandler
	logger       *slog.Logger
	shutdownChan chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
}

// NewConsumer creates a new Redis Streams consumer.
func NewConsumer(config Config, handler EventHandler, logger *slog.Logger) (*Consumer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !config.Enabled {
		return &Consumer{config: config, logger: logger}, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, err
	}

	return NewConsumerWithClient(redis.NewClient(opts), config, handler, logger), nil
}

// NewConsumerWithClient creates an enabled consumer on an existing client.
func NewConsumerWithClient(client *redis.Client, config Config, handler EventHandler, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	config.Enabled = true
	return &Consumer{
		client:       client,
		config:       config,
		handler:      handler,
		logger:       logger,
		shutdownChan: make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start begins consuming events from the stream.
func (c *Consumer) Start(ctx context.Context) error {
	if !c.config.Enabled {
		c.logger.Info("consumer disabled, not starting")
		return nil
	}

	if err := c.ensureConsumerGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("starting consumer",
		"stream", c.config.StreamKey,
		"group", c.config.GroupName,
		"consumer", c.config.ConsumerName,
	)

	go c.consumeLoop(ctx)
	return nil
}

// Stop stops the loop, waits for the in-flight batch and closes the client.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		if c.shutdownChan != nil {
			close(c.shutdownChan)
		}
		if c.done != nil {
			select {
			case <-c.done:
			case <-time.After(c.config.BlockTimeout + 5*time.Second):
				c.logger.Warn("consumer did not stop in time")
			}
		}
		if c.client != nil {
			c.client.Close()
		}
	})
}

// IsEnabled returns true if the consumer is enabled.
func (c *Consumer) IsEnabled() bool {
	return c.config.Enabled
}

func (c *Consumer) ensureConsumerGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.config.StreamKey, c.config.GroupName, "0").Err()
	if err != nil {
		// BUSYGROUP means the group already exists
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			return nil
		}
		return err
	}
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer context cancelled, stopping")
			return
		case <-c.shutdownChan:
			c.logger.Info("consumer shutdown requested, stopping")
			return
		default:
			if err := c.readAndProcess(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("error processing events", "error", err)
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				case <-c.shutdownChan:
					return
				}
			}
		}
	}
}

// readAndProcess reclaims idle pending messages, then reads new ones, and
// hands both to the handler as one batch.
func (c *Consumer) readAndProcess(ctx context.Context) error {
	claimed, err := c.claimIdle(ctx)
	if err != nil {
		return err
	}

	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.config.GroupName,
		Consumer: c.config.ConsumerName,
		Streams:  []string{c.config.StreamKey, ">"},
		Count:    c.config.BatchSize,
		Block:    c.config.BlockTimeout,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	messages := claimed
	for _, stream := range streams {
		messages = append(messages, stream.Messages...)
	}
	if len(messages) == 0 {
		return nil
	}

	c.process(ctx, messages)
	return nil
}

func (c *Consumer) claimIdle(ctx context.Context) ([]redis.XMessage, error) {
	if c.config.ClaimIdleTime <= 0 {
		return nil, nil
	}

	messages, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.config.StreamKey,
		Group:    c.config.GroupName,
		Consumer: c.config.ConsumerName,
		MinIdle:  c.config.ClaimIdleTime,
		Start:    "0-0",
		Count:    c.config.BatchSize,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return messages, nil
}

func (c *Consumer) process(ctx context.Context, messages []redis.XMessage) {
	events := make([]Event, len(messages))
	for i, message := range messages {
		events[i] = c.parseEvent(message)
	}

	errs := c.handler.HandleEvents(ctx, events)

	ack := make([]string, 0, len(messages))
	for i, message := range messages {
		if i < len(errs) && errs[i] != nil {
			// Not acknowledged; reclaimed after ClaimIdleTime.
			c.logger.Error("failed to process event",
				"message_id", message.ID,
				"event_type", events[i].EventType,
				"error", errs[i],
			)
			continue
		}
		ack = append(ack, message.ID)
	}

	if len(ack) == 0 {
		return
	}
	if err := c.client.XAck(ctx, c.config.StreamKey, c.config.GroupName, ack...).Err(); err != nil {
		c.logger.Error("failed to acknowledge messages",
			"count", len(ack),
			"error", err,
		)
	}
}

// parseEvent converts a Redis Stream message to an Event.
func (c *Consumer) parseEvent(message redis.XMessage) Event {
	event := Event{
		MessageID: message.ID,
		Metadata:  make(map[string]string),
	}

	if v, ok := message.Values["event_id"].(string); ok {
		event.EventID = v
	}
	if v, ok := message.Values["event_type"].(string); ok {
		event.EventType = v
	}
	if v, ok := message.Values["source"].(string); ok {
		event.Source = v
	}
	if v, ok := message.Values["created_at"].(string); ok {
		event.CreatedAt, _ = time.Parse(time.RFC3339, v)
	}
	if v, ok := message.Values["payload"].(string); ok {
		event.Payload = json.RawMessage(v)
	}
	if v, ok := message.Values["metadata"].(string); ok {
		_ = json.Unmarshal([]byte(v), &event.Metadata)
	}

	return event
}
