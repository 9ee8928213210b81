package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/cauldron/internal/config"
	"github.com/jwebster45206/cauldron/internal/logger"
	"github.com/jwebster45206/cauldron/internal/services/events"
	istorage "github.com/jwebster45206/cauldron/internal/storage"
	"github.com/jwebster45206/cauldron/pkg/session"
	"github.com/jwebster45206/cauldron/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logFile, err := logger.OpenLogFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close() // Ignore error in defer
	}()
	log := logger.Setup(cfg, logFile)

	store, err := istorage.NewFileStorage(cfg.DataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open scenarios: %v\n", err)
		os.Exit(1)
	}

	var publisher session.Publisher
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := events.NewRedisClient(ctx, cfg.RedisURL, log)
		cancel()
		if err != nil {
			// Events are for outside observers; play without them.
			logger.WithError(log, err).Warn("Event broadcasting disabled")
		} else {
			defer func() {
				_ = rdb.Close() // Ignore error in defer
			}()
			publisher = events.NewBroadcaster(rdb, cfg.EventChannelPrefix, log)
		}
	}

	p := tea.NewProgram(NewConsoleUI(cfg, store, publisher, log),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

// listScenarios returns scenario names in display order along with their files.
// The configured default scenario is listed first.
func listScenarios(ctx context.Context, store storage.Storage, preferred string) ([]string, map[string]string, error) {
	scenarioMap, err := store.ListScenarios(ctx)
	if err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range scenarioMap {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, pj := scenarioMap[names[i]] == preferred, scenarioMap[names[j]] == preferred
		if pi != pj {
			return pi
		}
		return names[i] < names[j]
	})
	return names, scenarioMap, nil
}

// startSession loads a scenario and begins a fresh session on it.
func startSession(ctx context.Context, store storage.Storage, filename string, publisher session.Publisher, log *slog.Logger) (*session.Session, error) {
	sc, err := store.GetScenario(ctx, filename)
	if err != nil {
		return nil, err
	}
	opts := []session.Option{session.WithLogger(log)}
	if publisher != nil {
		opts = append(opts, session.WithPublisher(publisher))
	}
	s, err := session.New(sc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	log.Info("Session started", "session_id", s.ID().String(), "scenario", filename)
	return s, nil
}
