package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/cauldron/pkg/scenario"
)

// ErrScenarioNotFound is returned when no scenario file has the requested name.
var ErrScenarioNotFound = errors.New("scenario not found")

// Storage loads static scenario content. Sessions are never persisted.
type Storage interface {
	// ListScenarios maps scenario display names to file names.
	ListScenarios(ctx context.Context) (map[string]string, error)
	// GetScenario loads and prepares a scenario by file name.
	GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error)
}
