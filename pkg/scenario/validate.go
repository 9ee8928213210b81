package scenario

import (
	"errors"
	"fmt"
	"sort"

	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/cooking"
)

// Validate checks that every lookup the engine can make is total: each scene
// has frames and text, each scene has a branch row ending in a fallback, every
// branch target exists, and the combination table only names pantry items.
// All defects are reported together.
func (s *Scenario) Validate() error {
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if len(s.Scenes) == 0 {
		add(fmt.Errorf("%w: scenario has no scenes", ErrConfiguration))
		return errors.Join(errs...)
	}
	if _, ok := s.Scenes[s.OpeningScene]; !ok {
		add(sceneError(s.OpeningScene, "opening scene not in catalog"))
	}

	for _, id := range s.SceneIDs() {
		sc := s.Scenes[id]
		if sc == nil {
			add(sceneError(id, "scene is null"))
			continue
		}
		if !sc.Track.IsValid() {
			add(sceneError(id, "unknown track %q", sc.Track))
		}
		if len(sc.Frames) == 0 {
			add(sceneError(id, "scene has no frames"))
		}
		for i, f := range sc.Frames {
			if f.Text == "" {
				add(frameError(id, uint32(i), "frame has no text"))
			}
		}
		if sc.LeftCharacter == "" || sc.RightCharacter == "" {
			add(sceneError(id, "scene needs default left and right characters"))
		}

		br, ok := s.Branches[id]
		if !ok {
			add(sceneError(id, "no branch rule"))
			continue
		}
		for _, err := range s.validateBranchRule(id, br) {
			add(err)
		}
	}

	orphans := make([]SceneID, 0)
	for from := range s.Branches {
		if _, ok := s.Scenes[from]; !ok {
			orphans = append(orphans, from)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i] < orphans[j] })
	for _, from := range orphans {
		add(sceneError(from, "branch rule for scene not in catalog"))
	}

	for _, err := range s.validateCooking() {
		add(err)
	}

	return errors.Join(errs...)
}

func (s *Scenario) validateBranchRule(id SceneID, br BranchRule) []error {
	var errs []error
	if len(br.Rules) == 0 {
		return []error{sceneError(id, "branch rule has no rules")}
	}

	conditional := false
	for i, b := range br.Rules {
		if _, ok := s.Scenes[b.Then.Scene]; !ok {
			errs = append(errs, sceneError(id, "rule %d targets unknown scene %d", i, b.Then.Scene))
		}
		if b.When.IsUnconditional() {
			if i != len(br.Rules)-1 {
				errs = append(errs, sceneError(id, "rule %d is unconditional but rules follow it", i))
			}
			continue
		}
		conditional = true
		if *b.When.Above >= conditionals.MaxTrait {
			errs = append(errs, sceneError(id, "rule %d threshold %d can never be exceeded", i, *b.When.Above))
		}
	}

	if !br.Rules[len(br.Rules)-1].When.IsUnconditional() {
		errs = append(errs, sceneError(id, "last rule must be an unconditional fallback"))
	}
	if conditional && !br.Axis.IsValid() {
		errs = append(errs, sceneError(id, "branch rule has thresholds but axis %q is not sweet, savory or spooky", br.Axis))
	}
	return errs
}

func (s *Scenario) validateCooking() []error {
	var errs []error
	if s.Fallback.Asset == "" || s.Fallback.Description == "" {
		errs = append(errs, fmt.Errorf("%w: fallback result needs an asset and a description", ErrConfiguration))
	}
	if !s.Fallback.Traits.IsZero() {
		errs = append(errs, fmt.Errorf("%w: fallback result must have zero traits", ErrConfiguration))
	}

	pantry, err := cooking.NewPantry(s.Ingredients)
	if err != nil {
		return append(errs, fmt.Errorf("%w: %v", ErrConfiguration, err))
	}

	seen := make(map[cooking.Pair]bool, len(s.Recipes))
	for _, r := range s.Recipes {
		key := r.Pair()
		for _, id := range r.Ingredients {
			if !pantry.Has(id) {
				errs = append(errs, fmt.Errorf("%w: recipe %s uses unknown ingredient %d", ErrConfiguration, key, id))
			}
		}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%w: duplicate recipe for pair %s", ErrConfiguration, key))
		}
		seen[key] = true
		if err := r.Result.Traits.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: recipe %s: %v", ErrConfiguration, key, err))
		}
		if r.Result.Asset == "" {
			errs = append(errs, fmt.Errorf("%w: recipe %s has no asset", ErrConfiguration, key))
		}
	}
	return errs
}
