package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/jwebster45206/cauldron/data"
	"github.com/jwebster45206/cauldron/pkg/scenario"
	"github.com/jwebster45206/cauldron/pkg/storage"
)

// FileStorage serves scenario JSON files from a filesystem. Scenarios are
// static content; nothing is ever written back.
type FileStorage struct {
	fsys   fs.FS
	logger *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage reads scenarios from dataDir/scenarios, or from the scenarios
// embedded in the binary when dataDir is empty.
func NewFileStorage(dataDir string, logger *slog.Logger) (*FileStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dataDir == "" {
		sub, err := fs.Sub(data.Scenarios, "scenarios")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded scenarios: %w", err)
		}
		return NewFSStorage(sub, logger), nil
	}
	return NewFSStorage(os.DirFS(filepath.Join(dataDir, "scenarios")), logger), nil
}

// NewFSStorage serves scenarios from the root of fsys.
func NewFSStorage(fsys fs.FS, logger *slog.Logger) *FileStorage {
	return &FileStorage{fsys: fsys, logger: logger}
}

func (f *FileStorage) ListScenarios(ctx context.Context) (map[string]string, error) {
	scenarios := make(map[string]string)

	err := fs.WalkDir(f.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		file, err := fs.ReadFile(f.fsys, p)
		if err != nil {
			f.logger.Warn("Failed to read scenario file", "path", p, "error", err)
			return nil
		}

		s, err := scenario.Parse(file, false)
		if err != nil {
			f.logger.Warn("Skipping invalid scenario file", "path", p, "error", err)
			return nil
		}

		scenarios[s.Name] = path.Base(p)
		return nil
	})

	if err != nil {
		f.logger.Error("Failed to walk scenarios directory", "error", err)
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	return scenarios, nil
}

func (f *FileStorage) GetScenario(ctx context.Context, filename string) (*scenario.Scenario, error) {
	f.logger.Debug("Loading scenario", "filename", filename)

	file, err := fs.ReadFile(f.fsys, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Error("Scenario file not found", "filename", filename, "error", err)
			return nil, fmt.Errorf("%w: %s", storage.ErrScenarioNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := scenario.Parse(file, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario %s: %w", filename, err)
	}
	if s.FileName == "" {
		s.FileName = filename
	}

	return s, nil
}
