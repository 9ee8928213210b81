package events

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/cauldron/pkg/session"
)

func setupTestRedis(t *testing.T) (*Broadcaster, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	rdb, err := NewRedisClient(context.Background(), "redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	return NewBroadcaster(rdb, "", logger), mr
}

func TestBroadcaster_Channel(t *testing.T) {
	id := uuid.MustParse("6f1d3c52-5e3b-4f7a-9a0e-2f1b8c7d6e5f")
	b := NewBroadcaster(nil, "test:", nil)
	if got := b.Channel(id); got != "test:6f1d3c52-5e3b-4f7a-9a0e-2f1b8c7d6e5f" {
		t.Errorf("Unexpected channel %q", got)
	}
	if got := NewBroadcaster(nil, "", nil).Channel(id); got != DefaultChannelPrefix+id.String() {
		t.Errorf("Expected default prefix, got %q", got)
	}
}

func TestBroadcaster_PublishSubscribe(t *testing.T) {
	b, mr := setupTestRedis(t)
	defer mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	id := uuid.New()
	events, err := b.Subscribe(ctx, id)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	sent := session.Event{
		Type:      session.EventTypeCombinationResolved,
		SessionID: id.String(),
		Data:      map[string]any{"pair": "(1,2)", "sweet": 80},
	}
	if err := b.Publish(ctx, id, sent); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case got := <-events:
		if got.Type != sent.Type || got.SessionID != sent.SessionID {
			t.Errorf("Expected %+v, got %+v", sent, got)
		}
		if got.Data["pair"] != "(1,2)" {
			t.Errorf("Expected pair (1,2), got %v", got.Data["pair"])
		}
		// JSON numbers decode as float64.
		if got.Data["sweet"] != float64(80) {
			t.Errorf("Expected sweet 80, got %v", got.Data["sweet"])
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for event")
	}
}

func TestBroadcaster_OtherSessionsAreIgnored(t *testing.T) {
	b, mr := setupTestRedis(t)
	defer mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mine, other := uuid.New(), uuid.New()
	events, err := b.Subscribe(ctx, mine)
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	if err := b.Publish(ctx, other, session.Event{Type: session.EventTypeSceneChanged, SessionID: other.String()}); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	if err := b.Publish(ctx, mine, session.Event{Type: session.EventTypePhaseChanged, SessionID: mine.String()}); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	select {
	case got := <-events:
		if got.SessionID != mine.String() {
			t.Errorf("Received event for session %s", got.SessionID)
		}
	case <-ctx.Done():
		t.Fatal("Timed out waiting for event")
	}
}

func TestBroadcaster_SubscriptionClosesOnCancel(t *testing.T) {
	b, mr := setupTestRedis(t)
	defer mr.Close()
	ctx, cancel := context.WithCancel(context.Background())

	events, err := b.Subscribe(ctx, uuid.New())
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	cancel()

	select {
	case _, ok := <-events:
		if ok {
			t.Error("Expected channel to close without delivering")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Subscription did not close after cancel")
	}
}

func TestBroadcaster_PublishFailsWhenRedisIsDown(t *testing.T) {
	b, mr := setupTestRedis(t)
	mr.Close()

	err := b.Publish(context.Background(), uuid.New(), session.Event{Type: session.EventTypeSessionRestarted})
	if err == nil {
		t.Error("Expected publish to fail with redis down")
	}
}

func TestNewRedisClient_BadURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	if _, err := NewRedisClient(context.Background(), "not a url", logger); err == nil {
		t.Error("Expected error for invalid redis URL")
	}
}
