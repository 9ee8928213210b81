package state

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/scenario"
)

// FrameOutcome reports what AdvanceFrame did.
type FrameOutcome int

const (
	// Continuing means the frame index moved forward within the scene.
	Continuing FrameOutcome = iota
	// SceneComplete means the last frame was already showing; the caller must call AdvanceScene next.
	SceneComplete
)

func (o FrameOutcome) String() string {
	switch o {
	case Continuing:
		return "continuing"
	case SceneComplete:
		return "scene_complete"
	}
	return fmt.Sprintf("FrameOutcome(%d)", int(o))
}

// NarrativeState is the position in the scene graph.
// Frame is always within [0, FrameCount] of Scene.
type NarrativeState struct {
	Scene scenario.SceneID `json:"scene"`
	Frame uint32           `json:"frame"`
}

// Machine walks a scenario's scene graph. It is owned by a single session and
// is not safe for concurrent use.
type Machine struct {
	scenario *scenario.Scenario
	state    NarrativeState
	logger   *slog.Logger
}

// NewMachine starts at the scenario's opening scene, frame 0.
func NewMachine(s *scenario.Scenario, logger *slog.Logger) (*Machine, error) {
	if _, err := s.Scene(s.OpeningScene); err != nil {
		return nil, fmt.Errorf("cannot start narrative: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		scenario: s,
		state:    NarrativeState{Scene: s.OpeningScene},
		logger:   logger,
	}, nil
}

// State returns a copy of the current position.
func (m *Machine) State() NarrativeState {
	return m.state
}

// Scene returns the catalog entry for the current scene. The machine only
// ever moves to scenes it found in the catalog, so a miss here is a defect.
func (m *Machine) Scene() *scenario.Scene {
	return m.scenario.MustScene(m.state.Scene)
}

// Reset returns to the opening scene, frame 0.
func (m *Machine) Reset() {
	m.state = NarrativeState{Scene: m.scenario.OpeningScene}
}

// AdvanceFrame moves to the next frame, or reports SceneComplete without
// moving when the last frame is already showing.
func (m *Machine) AdvanceFrame() FrameOutcome {
	if m.state.Frame < m.Scene().FrameCount() {
		m.state.Frame++
		return Continuing
	}
	return SceneComplete
}

// AdvanceScene consults the branch table for the current scene and moves to
// the first matching target at frame 0. On a configuration defect the state
// is left unchanged.
func (m *Machine) AdvanceScene(tv conditionals.TraitView) (scenario.SceneID, error) {
	from := m.state.Scene
	next, err := m.scenario.NextScene(from, tv)
	if err != nil {
		m.logger.Error("Branch lookup failed", "scene", from, "error", err)
		return from, fmt.Errorf("failed to advance scene: %w", err)
	}
	m.state = NarrativeState{Scene: next}
	m.logger.Debug("Scene changed", "from", from, "to", next, "traits", tv)
	return next, nil
}

// Text returns the line for the current frame.
func (m *Machine) Text() string {
	return must(m.Scene().Text(m.state.Frame))
}

// Speaker returns who speaks the current frame.
func (m *Machine) Speaker() string {
	return must(m.Scene().Speaker(m.state.Frame))
}

// LeftCharacterAsset returns the left sprite for the current frame.
func (m *Machine) LeftCharacterAsset() string {
	return must(m.Scene().LeftCharacterAsset(m.state.Frame))
}

// RightCharacterAsset returns the right sprite for the current frame.
func (m *Machine) RightCharacterAsset() string {
	return must(m.Scene().RightCharacterAsset(m.state.Frame))
}

// must panics on lookups the frame invariant guarantees.
func must(s string, err error) string {
	if err != nil {
		panic(err)
	}
	return s
}
