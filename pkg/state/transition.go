package state

import "github.com/jwebster45206/cauldron/pkg/scenario"

// Transition says what the presentation layer does once a scene completes.
// It has exactly three cases: StayInDialogue, EnterMinigame and EnterIntermission.
type Transition interface {
	isTransition()
}

// StayInDialogue moves straight to the next dialogue scene with neutral traits.
type StayInDialogue struct{}

// EnterMinigame hands control to cooking; the confirmed dish picks the next scene.
type EnterMinigame struct{}

// EnterIntermission shows a break card, then moves on with neutral traits.
type EnterIntermission struct {
	Card string // Text for the intermission card
}

func (StayInDialogue) isTransition()    {}
func (EnterMinigame) isTransition()     {}
func (EnterIntermission) isTransition() {}

// TransitionFor maps a scene's track onto its transition.
func TransitionFor(sc *scenario.Scene) Transition {
	switch sc.TrackOrDefault() {
	case scenario.TrackMinigame:
		return EnterMinigame{}
	case scenario.TrackIntermission:
		return EnterIntermission{Card: sc.Intermission}
	default:
		return StayInDialogue{}
	}
}
