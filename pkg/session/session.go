package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/cooking"
	"github.com/jwebster45206/cauldron/pkg/scenario"
	"github.com/jwebster45206/cauldron/pkg/state"
)

var (
	// ErrWrongPhase is returned for input that doesn't apply to the current phase.
	ErrWrongPhase = errors.New("input not accepted in current phase")
	// ErrUnknownIngredient is returned when a pick isn't in the pantry.
	ErrUnknownIngredient = errors.New("unknown ingredient")
)

// Phase is the top-level mode the presentation layer is in.
type Phase string

const (
	PhaseDialogue     Phase = "dialogue"
	PhaseMinigame     Phase = "minigame"
	PhaseIntermission Phase = "intermission"
)

// Session is one play-through of a scenario. It owns the narrative state,
// the ingredient selection and the trait handoff between them. Inputs must be
// delivered one at a time from a single goroutine.
type Session struct {
	id        uuid.UUID
	scenario  *scenario.Scenario
	machine   *state.Machine
	selection cooking.Selection
	phase     Phase
	traits    conditionals.Traits
	last      *cooking.Result
	logger    *slog.Logger
	publisher Publisher
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithPublisher sets where session events are sent.
func WithPublisher(p Publisher) Option {
	return func(s *Session) { s.publisher = p }
}

// WithID fixes the session id instead of generating one.
func WithID(id uuid.UUID) Option {
	return func(s *Session) { s.id = id }
}

// Step describes the result of an AdvanceDialogue input.
type Step struct {
	Outcome    state.FrameOutcome
	Transition state.Transition // Set when Outcome is SceneComplete
	Scene      scenario.SceneID // Scene showing after the step
	Phase      Phase            // Phase after the step
}

// New starts a session at the scenario's opening scene in the dialogue phase.
// The scenario must already be prepared.
func New(sc *scenario.Scenario, opts ...Option) (*Session, error) {
	if sc.Resolver() == nil {
		return nil, fmt.Errorf("%w: scenario %q was not prepared", scenario.ErrConfiguration, sc.Name)
	}
	s := &Session{
		id:        uuid.New(),
		scenario:  sc,
		phase:     PhaseDialogue,
		logger:    slog.Default(),
		publisher: nopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id.String())

	m, err := state.NewMachine(sc, s.logger)
	if err != nil {
		return nil, err
	}
	s.machine = m
	return s, nil
}

func (s *Session) ID() uuid.UUID                { return s.id }
func (s *Session) Phase() Phase                 { return s.phase }
func (s *Session) State() state.NarrativeState  { return s.machine.State() }
func (s *Session) Selection() cooking.Selection { return s.selection }
func (s *Session) Traits() conditionals.Traits  { return s.traits }
func (s *Session) Scenario() *scenario.Scenario { return s.scenario }

// LastResult returns the most recently confirmed dish, if any.
func (s *Session) LastResult() (cooking.Result, bool) {
	if s.last == nil {
		return cooking.Result{}, false
	}
	return *s.last, true
}

// SelectIngredient records a pick during the minigame.
func (s *Session) SelectIngredient(ctx context.Context, id cooking.IngredientID) error {
	if s.phase != PhaseMinigame {
		return fmt.Errorf("select ingredient %d: %w", id, ErrWrongPhase)
	}
	if !s.scenario.Pantry().Has(id) {
		return fmt.Errorf("select ingredient %d: %w", id, ErrUnknownIngredient)
	}
	s.selection.Update(id)
	s.logger.Debug("Ingredient selected", "ingredient", id, "previous", s.selection.Previous())
	s.publish(ctx, EventTypeIngredientSelected, map[string]any{
		"ingredient": uint32(id),
		"summary":    s.SelectionSummary(),
	})
	return nil
}

// Preview resolves the current selection without committing to it.
func (s *Session) Preview() cooking.Result {
	return s.scenario.Resolver().ResolveSelection(s.selection)
}

// Confirm cooks the current selection, hands its traits to the branch table
// and returns to dialogue in the scene the dish selected.
func (s *Session) Confirm(ctx context.Context) (cooking.Result, error) {
	if s.phase != PhaseMinigame {
		return cooking.Result{}, fmt.Errorf("confirm: %w", ErrWrongPhase)
	}

	pair := s.selection.CanonicalPair()
	res := s.scenario.Resolver().Resolve(pair)
	s.last = &res
	s.traits = res.Traits
	s.logger.Info("Combination resolved", "pair", pair.String(), "asset", res.Asset, "traits", res.Traits.String())
	s.publish(ctx, EventTypeCombinationResolved, map[string]any{
		"pair":        pair.String(),
		"asset":       res.Asset,
		"description": res.Description,
		"sweet":       res.Traits.Sweet,
		"savory":      res.Traits.Savory,
		"spooky":      res.Traits.Spooky,
	})

	if err := s.advanceScene(ctx, s.traits); err != nil {
		return res, err
	}
	s.setPhase(ctx, PhaseDialogue)
	return res, nil
}

// AdvanceDialogue shows the next frame, or handles the end of the scene.
func (s *Session) AdvanceDialogue(ctx context.Context) (Step, error) {
	switch s.phase {
	case PhaseIntermission:
		if err := s.advanceScene(ctx, conditionals.Traits{}); err != nil {
			return Step{}, err
		}
		s.setPhase(ctx, PhaseDialogue)
		return s.step(state.SceneComplete, nil), nil
	case PhaseMinigame:
		return Step{}, fmt.Errorf("advance dialogue: %w", ErrWrongPhase)
	}

	if s.machine.AdvanceFrame() == state.Continuing {
		return s.step(state.Continuing, nil), nil
	}

	t := state.TransitionFor(s.machine.Scene())
	switch t.(type) {
	case state.EnterMinigame:
		s.selection.Reset()
		s.setPhase(ctx, PhaseMinigame)
	case state.EnterIntermission:
		s.setPhase(ctx, PhaseIntermission)
	default:
		if err := s.advanceScene(ctx, conditionals.Traits{}); err != nil {
			return Step{}, err
		}
	}
	return s.step(state.SceneComplete, t), nil
}

// Restart puts the session back at the opening scene with nothing cooked.
func (s *Session) Restart(ctx context.Context) {
	s.machine.Reset()
	s.selection.Reset()
	s.traits = conditionals.Traits{}
	s.last = nil
	s.phase = PhaseDialogue
	s.logger.Info("Session restarted")
	s.publish(ctx, EventTypeSessionRestarted, map[string]any{
		"scene": uint32(s.machine.State().Scene),
	})
}

// SelectionSummary renders the selection as "ingredients selected: X and Y".
func (s *Session) SelectionSummary() string {
	return s.scenario.Pantry().Describe(s.selection)
}

func (s *Session) advanceScene(ctx context.Context, t conditionals.Traits) error {
	from := s.machine.State().Scene
	to, err := s.machine.AdvanceScene(t)
	if err != nil {
		return err
	}
	s.publish(ctx, EventTypeSceneChanged, map[string]any{
		"from": uint32(from),
		"to":   uint32(to),
	})
	return nil
}

func (s *Session) setPhase(ctx context.Context, p Phase) {
	if s.phase == p {
		return
	}
	from := s.phase
	s.phase = p
	s.logger.Debug("Phase changed", "from", from, "to", p)
	s.publish(ctx, EventTypePhaseChanged, map[string]any{
		"from": string(from),
		"to":   string(p),
	})
}

func (s *Session) step(o state.FrameOutcome, t state.Transition) Step {
	return Step{
		Outcome:    o,
		Transition: t,
		Scene:      s.machine.State().Scene,
		Phase:      s.phase,
	}
}

func (s *Session) publish(ctx context.Context, typ EventType, data map[string]any) {
	ev := Event{Type: typ, SessionID: s.id.String(), Data: data}
	if err := s.publisher.Publish(ctx, s.id, ev); err != nil {
		s.logger.Warn("Failed to publish session event", "type", typ, "error", err)
	}
}
