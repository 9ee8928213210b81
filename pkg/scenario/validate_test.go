package scenario

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/cooking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFixture decodes the fixture without preparing it so tests can break it first.
func rawFixture(t *testing.T) *Scenario {
	t.Helper()
	var s Scenario
	require.NoError(t, json.Unmarshal([]byte(fixtureJSON), &s))
	return &s
}

func TestValidate_Fixture(t *testing.T) {
	assert.NoError(t, rawFixture(t).Validate())
}

func TestValidate_Defects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Scenario)
		wantErr string
	}{
		{
			name:    "missing opening scene",
			mutate:  func(s *Scenario) { s.OpeningScene = 7 },
			wantErr: "scene 7: opening scene not in catalog",
		},
		{
			name:    "missing branch row",
			mutate:  func(s *Scenario) { delete(s.Branches, 2) },
			wantErr: "scene 2: no branch rule",
		},
		{
			name: "no fallback rule",
			mutate: func(s *Scenario) {
				br := s.Branches[0]
				br.Rules = br.Rules[:1]
				s.Branches[0] = br
			},
			wantErr: "last rule must be an unconditional fallback",
		},
		{
			name: "fallback before other rules",
			mutate: func(s *Scenario) {
				s.Branches[0] = BranchRule{Axis: conditionals.AxisSweet, Rules: []Branch{
					{Then: BranchThen{Scene: 1}},
					{When: conditionals.Above(10), Then: BranchThen{Scene: 2}},
				}}
			},
			wantErr: "rule 0 is unconditional but rules follow it",
		},
		{
			name: "unknown target",
			mutate: func(s *Scenario) {
				s.Branches[1] = BranchRule{Rules: []Branch{{Then: BranchThen{Scene: 99}}}}
			},
			wantErr: "rule 0 targets unknown scene 99",
		},
		{
			name: "bad axis",
			mutate: func(s *Scenario) {
				br := s.Branches[0]
				br.Axis = "sweeet"
				s.Branches[0] = br
			},
			wantErr: `axis "sweeet" is not sweet, savory or spooky`,
		},
		{
			name: "unreachable threshold",
			mutate: func(s *Scenario) {
				s.Branches[0] = BranchRule{Axis: conditionals.AxisSweet, Rules: []Branch{
					{When: conditionals.Above(100), Then: BranchThen{Scene: 1}},
					{Then: BranchThen{Scene: 2}},
				}}
			},
			wantErr: "threshold 100 can never be exceeded",
		},
		{
			name:    "scene without frames",
			mutate:  func(s *Scenario) { s.Scenes[1].Frames = nil },
			wantErr: "scene 1: scene has no frames",
		},
		{
			name:    "frame without text",
			mutate:  func(s *Scenario) { s.Scenes[0].Frames[1].Text = "" },
			wantErr: "scene 0 frame 1: frame has no text",
		},
		{
			name:    "unknown track",
			mutate:  func(s *Scenario) { s.Scenes[1].Track = "cutscene" },
			wantErr: `unknown track "cutscene"`,
		},
		{
			name:    "branch for missing scene",
			mutate:  func(s *Scenario) { s.Branches[5] = BranchRule{Rules: []Branch{{Then: BranchThen{Scene: 0}}}} },
			wantErr: "scene 5: branch rule for scene not in catalog",
		},
		{
			name: "recipe with unknown ingredient",
			mutate: func(s *Scenario) {
				s.Recipes = append(s.Recipes, cooking.Recipe{Ingredients: [2]cooking.IngredientID{1, 8}, Result: cooking.Result{Asset: "x.png"}})
			},
			wantErr: "recipe (1,8) uses unknown ingredient 8",
		},
		{
			name: "duplicate recipe reversed",
			mutate: func(s *Scenario) {
				s.Recipes = append(s.Recipes, cooking.Recipe{Ingredients: [2]cooking.IngredientID{2, 1}, Result: cooking.Result{Asset: "x.png"}})
			},
			wantErr: "duplicate recipe for pair (1,2)",
		},
		{
			name:    "fallback with traits",
			mutate:  func(s *Scenario) { s.Fallback.Traits.Spooky = 10 },
			wantErr: "fallback result must have zero traits",
		},
		{
			name:    "trait out of range",
			mutate:  func(s *Scenario) { s.Recipes[1].Result.Traits.Sweet = 120 },
			wantErr: "sweet trait 120 exceeds 100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rawFixture(t)
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "expected ErrConfiguration in %v", err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "expected %q in:\n%v", tt.wantErr, err)
		})
	}
}

func TestValidate_ReportsEveryDefect(t *testing.T) {
	s := rawFixture(t)
	delete(s.Branches, 1)
	delete(s.Branches, 2)

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene 1: no branch rule")
	assert.Contains(t, err.Error(), "scene 2: no branch rule")
}

func TestPrepare_RejectsInvalid(t *testing.T) {
	s := rawFixture(t)
	s.Scenes = nil
	assert.ErrorIs(t, s.Prepare(), ErrConfiguration)
	assert.Nil(t, s.Resolver(), "resolver is only built for valid content")
}
