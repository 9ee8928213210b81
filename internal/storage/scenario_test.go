package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jwebster45206/cauldron/pkg/scenario"
	"github.com/jwebster45206/cauldron/pkg/storage"
)

const tinyScenario = `{
	"name": "Tiny",
	"opening_scene": 0,
	"ingredients": [{"id": 1, "name": "salt"}],
	"fallback": {"asset": "failure.png", "description": "Nothing happens."},
	"scenes": {"0": {"left_character": "a.png", "right_character": "b.png", "frames": [{"text": "Hi"}]}},
	"branches": {"0": {"rules": [{"then": {"scene": 0}}]}}
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileStorage_Embedded(t *testing.T) {
	store, err := NewFileStorage("", quietLogger())
	if err != nil {
		t.Fatalf("Failed to open embedded storage: %v", err)
	}
	ctx := context.Background()

	list, err := store.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("Failed to list scenarios: %v", err)
	}
	if list["The Witch's Kitchen"] != "witch_kitchen.json" {
		t.Errorf("Expected witch_kitchen.json in %v", list)
	}
	if list["First Batch"] != "first_batch.json" {
		t.Errorf("Expected first_batch.json in %v", list)
	}

	s, err := store.GetScenario(ctx, "witch_kitchen.json")
	if err != nil {
		t.Fatalf("Failed to load witch_kitchen.json: %v", err)
	}
	if s.FileName != "witch_kitchen.json" {
		t.Errorf("Expected FileName to be filled in, got %q", s.FileName)
	}
	if s.Resolver() == nil {
		t.Error("Expected loaded scenario to be prepared")
	}
}

func TestFileStorage_SkipsInvalidFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"tiny.json":   {Data: []byte(tinyScenario)},
		"broken.json": {Data: []byte(`{"name": "Broken", "scenes": {}}`)},
		"notes.txt":   {Data: []byte("not a scenario")},
	}
	s := NewFSStorage(fsys, quietLogger())

	list, err := s.ListScenarios(context.Background())
	if err != nil {
		t.Fatalf("Failed to list scenarios: %v", err)
	}
	if len(list) != 1 || list["Tiny"] != "tiny.json" {
		t.Errorf("Expected only Tiny, got %v", list)
	}

	if _, err := s.GetScenario(context.Background(), "broken.json"); !errors.Is(err, scenario.ErrConfiguration) {
		t.Errorf("Expected ErrConfiguration for broken.json, got %v", err)
	}
}

func TestFileStorage_NotFound(t *testing.T) {
	s := NewFSStorage(fstest.MapFS{}, quietLogger())
	_, err := s.GetScenario(context.Background(), "missing.json")
	if !errors.Is(err, storage.ErrScenarioNotFound) {
		t.Errorf("Expected ErrScenarioNotFound, got %v", err)
	}
}

func TestFileStorage_DataDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "scenarios"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "scenarios", "tiny.json"), []byte(tinyScenario), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStorage(dir, quietLogger())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	sc, err := s.GetScenario(context.Background(), "tiny.json")
	if err != nil {
		t.Fatalf("Failed to load tiny.json: %v", err)
	}
	if sc.Name != "Tiny" {
		t.Errorf("Expected 'Tiny', got %q", sc.Name)
	}
}
