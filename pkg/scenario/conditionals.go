package scenario

import "github.com/jwebster45206/cauldron/pkg/conditionals"

// BranchRule decides where a scene leads once its last frame is done.
// Every rule reads a single trait axis; rules are tried in order.
type BranchRule struct {
	Axis  conditionals.Axis `json:"axis,omitempty"` // Required when any rule has a threshold
	Rules []Branch          `json:"rules"`          // Last rule must be unconditional
}

// Branch represents a guarded transition to another scene.
type Branch struct {
	When *conditionals.When `json:"when,omitempty"` // nil means always
	Then BranchThen         `json:"then"`
}

// BranchThen defines the target of a branch.
type BranchThen struct {
	Scene SceneID `json:"scene"`
}

// Select returns the first branch whose guard passes for tv.
func (br *BranchRule) Select(tv conditionals.TraitView) (*Branch, bool) {
	whens := make([]*conditionals.When, len(br.Rules))
	for i := range br.Rules {
		whens[i] = br.Rules[i].When
	}
	i := conditionals.FirstMatch(br.Axis, whens, tv)
	if i < 0 {
		return nil, false
	}
	return &br.Rules[i], true
}

// NextScene resolves the branch table row for from against tv.
func (s *Scenario) NextScene(from SceneID, tv conditionals.TraitView) (SceneID, error) {
	br, ok := s.Branches[from]
	if !ok {
		return 0, sceneError(from, "no branch rule")
	}
	b, ok := br.Select(tv)
	if !ok {
		return 0, sceneError(from, "no branch matched %v on axis %q", tv, br.Axis)
	}
	if _, ok := s.Scenes[b.Then.Scene]; !ok {
		return 0, sceneError(from, "branch targets unknown scene %d", b.Then.Scene)
	}
	return b.Then.Scene, nil
}
