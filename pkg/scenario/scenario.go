package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/jwebster45206/cauldron/pkg/cooking"
)

// Scenario is the static content for a play session: the scene catalog, the
// branch table, the pantry and the combination table. It is read-only after Prepare.
type Scenario struct {
	Name         string                 `json:"name"`          // Name of the scenario
	FileName     string                 `json:"file_name"`     // Name of the file containing the scenario
	Story        string                 `json:"story"`         // Brief description of the scenario
	OpeningScene SceneID                `json:"opening_scene"` // Scene a new session starts in
	Scenes       map[SceneID]*Scene     `json:"scenes"`        // Scene catalog keyed by id
	Branches     map[SceneID]BranchRule `json:"branches"`      // Branch table keyed by source scene
	Ingredients  []cooking.Ingredient   `json:"ingredients"`   // Pantry contents
	Recipes      []cooking.Recipe       `json:"recipes"`       // Combination table rows
	Fallback     cooking.Result         `json:"fallback"`      // What unmatched pairs cook into

	pantry   cooking.Pantry
	resolver *cooking.Resolver
}

// Parse decodes scenario JSON and prepares it. Unknown fields are rejected
// when strict is set, which is what the validator uses.
func Parse(data []byte, strict bool) (*Scenario, error) {
	return Decode(bytes.NewReader(data), strict)
}

// Decode reads scenario JSON from r and prepares it.
func Decode(r io.Reader, strict bool) (*Scenario, error) {
	dec := json.NewDecoder(r)
	if strict {
		dec.DisallowUnknownFields()
	}
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if err := s.Prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Prepare validates the content and builds the lookup indexes. It must be
// called on scenarios assembled in code before they are played.
func (s *Scenario) Prepare() error {
	for id, sc := range s.Scenes {
		if sc != nil {
			sc.ID = id
		}
	}
	if err := s.Validate(); err != nil {
		return err
	}

	pantry, err := cooking.NewPantry(s.Ingredients)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	resolver, err := cooking.NewResolver(s.Fallback, s.Recipes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	s.pantry = pantry
	s.resolver = resolver
	return nil
}

// Scene returns the catalog entry for id.
func (s *Scenario) Scene(id SceneID) (*Scene, error) {
	sc, ok := s.Scenes[id]
	if !ok || sc == nil {
		return nil, sceneError(id, "scene not in catalog")
	}
	return sc, nil
}

// MustScene is Scene for content already known to be valid.
func (s *Scenario) MustScene(id SceneID) *Scene {
	sc, err := s.Scene(id)
	if err != nil {
		panic(err)
	}
	return sc
}

// SceneIDs returns every catalog id in ascending order.
func (s *Scenario) SceneIDs() []SceneID {
	ids := make([]SceneID, 0, len(s.Scenes))
	for id := range s.Scenes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Pantry returns the prepared ingredient index.
func (s *Scenario) Pantry() cooking.Pantry {
	return s.pantry
}

// Resolver returns the prepared combination resolver.
func (s *Scenario) Resolver() *cooking.Resolver {
	return s.resolver
}

// Reachable returns the scenes reachable from the opening scene by following
// every branch, in ascending order.
func (s *Scenario) Reachable() []SceneID {
	seen := map[SceneID]bool{s.OpeningScene: true}
	queue := []SceneID{s.OpeningScene}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, b := range s.Branches[id].Rules {
			if !seen[b.Then.Scene] {
				seen[b.Then.Scene] = true
				queue = append(queue, b.Then.Scene)
			}
		}
	}
	ids := make([]SceneID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
