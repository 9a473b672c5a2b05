package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventVersion is the schema version carried by every event.
const EventVersion = "1.0"

// EventType identifies a snapshot event.
const EventType = "usage.snapshot"

// Event is published once per run after the snapshot is written.
type Event struct {
	Version   string          `json:"version"`
	Type      string          `json:"type"`
	RunID     string          `json:"run_id"`
	Timestamp string          `json:"timestamp"`
	Snapshot  json.RawMessage `json:"snapshot"`
	Breaches  []BreachEvent   `json:"breaches"`
}

// BreachEvent is a provider above threshold.
type BreachEvent struct {
	Provider  string `json:"provider"`
	Usage     int64  `json:"usage"`
	Threshold int64  `json:"threshold"`
}

// RedisConfig configures the Redis publisher.
type RedisConfig struct {
	URL     string
	Channel string
	Timeout time.Duration
}

// RedisPublisher publishes events to a Redis Pub/Sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

// NewRedisPublisher parses the URL and creates a client. No connection is
// made until the first publish.
func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	return &RedisPublisher{
		client:  redis.NewClient(opts),
		channel: cfg.Channel,
		timeout: cfg.Timeout,
	}, nil
}

// Publish sends the event to the configured channel and returns the number
// of subscribers that received it.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) (int64, error) {
	if event.Version == "" {
		event.Version = EventVersion
	}
	if event.Type == "" {
		event.Type = EventType
	}
	if event.Timestamp == "" {
		event.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	if event.Breaches == nil {
		event.Breaches = []BreachEvent{}
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot event: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	receivers, err := p.client.Publish(ctx, p.channel, eventJSON).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish to %s: %w", p.channel, err)
	}
	return receivers, nil
}

// Channel returns the channel events are published to.
func (p *RedisPublisher) Channel() string {
	return p.channel
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
