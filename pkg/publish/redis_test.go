package publish

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// setupMiniredis starts a miniredis instance and returns a publisher and a
// plain client for subscribing.
func setupMiniredis(t *testing.T) (*RedisPublisher, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	pub, err := NewRedisPublisher(RedisConfig{
		URL:     "redis://" + mr.Addr(),
		Channel: "usagewatch:snapshots",
		Timeout: time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create publisher: %v", err)
	}
	t.Cleanup(func() { pub.Close() })

	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return pub, rdb
}

func TestRedisPublisher_Publish(t *testing.T) {
	pub, rdb := setupMiniredis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, pub.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}

	receivers, err := pub.Publish(ctx, Event{
		RunID:    "run-1",
		Snapshot: json.RawMessage(`{"openai":900,"last_updated":"2026-01-01T00:00:00Z"}`),
		Breaches: []BreachEvent{{Provider: "openai", Usage: 900, Threshold: 800}},
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if receivers != 1 {
		t.Errorf("expected 1 receiver, got %d", receivers)
	}

	select {
	case msg := <-sub.Channel():
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			t.Fatalf("payload is not an event: %v", err)
		}
		if event.Version != EventVersion || event.Type != EventType {
			t.Errorf("unexpected header %s/%s", event.Version, event.Type)
		}
		if event.RunID != "run-1" {
			t.Errorf("run_id = %q, want run-1", event.RunID)
		}
		if event.Timestamp == "" {
			t.Error("timestamp should be filled in")
		}
		if len(event.Breaches) != 1 || event.Breaches[0].Provider != "openai" {
			t.Errorf("unexpected breaches %+v", event.Breaches)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestRedisPublisher_EmptyBreachesEncodeAsArray(t *testing.T) {
	pub, rdb := setupMiniredis(t)
	ctx := context.Background()

	sub := rdb.Subscribe(ctx, pub.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("failed to subscribe: %v", err)
	}

	if _, err := pub.Publish(ctx, Event{RunID: "run-2", Snapshot: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var raw map[string]json.RawMessage
		if err := json.Unmarshal([]byte(msg.Payload), &raw); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if string(raw["breaches"]) != "[]" {
			t.Errorf("breaches = %s, want []", raw["breaches"])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestRedisPublisher_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	pub, err := NewRedisPublisher(RedisConfig{URL: "redis://" + addr, Channel: "c", Timeout: 500 * time.Millisecond})
	if err != nil {
		t.Fatalf("failed to create publisher: %v", err)
	}
	defer pub.Close()

	if _, err := pub.Publish(context.Background(), Event{RunID: "x", Snapshot: json.RawMessage(`{}`)}); err == nil {
		t.Error("expected publish error when server is down")
	}
}

func TestNewRedisPublisher_BadURL(t *testing.T) {
	if _, err := NewRedisPublisher(RedisConfig{URL: "http://localhost:6379"}); err == nil {
		t.Error("expected error for non-redis URL")
	}
}
