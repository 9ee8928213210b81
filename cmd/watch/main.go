package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/cauldron/internal/config"
	"github.com/jwebster45206/cauldron/internal/logger"
	"github.com/jwebster45206/cauldron/internal/services/events"
)

// watch prints the events of one session as JSON lines. It is a stand-in for
// an out-of-process renderer following a console session.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session-id>\n", os.Args[0])
		os.Exit(1)
	}

	sessionID, err := uuid.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid session ID: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.RedisURL == "" {
		fmt.Fprintf(os.Stderr, "REDIS_URL must be set\n")
		os.Exit(1)
	}
	log := logger.Setup(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	rdb, err := events.NewRedisClient(connectCtx, cfg.RedisURL, log)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = rdb.Close() // Ignore error in defer
	}()

	b := events.NewBroadcaster(rdb, cfg.EventChannelPrefix, log)
	stream, err := b.Subscribe(ctx, sessionID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	log.Info("Watching session", "channel", b.Channel(sessionID))

	enc := json.NewEncoder(os.Stdout)
	for ev := range stream {
		if err := enc.Encode(ev); err != nil {
			logger.WithError(log, err).Error("Failed to write event")
		}
	}
}
