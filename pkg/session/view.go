package session

import (
	"github.com/jwebster45206/cauldron/pkg/conditionals"
	"github.com/jwebster45206/cauldron/pkg/cooking"
	"github.com/jwebster45206/cauldron/pkg/scenario"
)

// View is everything the presentation layer needs to draw the current moment.
type View struct {
	SessionID      string              `json:"session_id"`
	Phase          Phase               `json:"phase"`
	Scene          scenario.SceneID    `json:"scene"`
	SceneTitle     string              `json:"scene_title"`
	Frame          uint32              `json:"frame"`
	FrameCount     uint32              `json:"frame_count"`
	Speaker        string              `json:"speaker,omitempty"`
	Text           string              `json:"text"`
	LeftCharacter  string              `json:"left_character"`
	RightCharacter string              `json:"right_character"`
	Intermission   string              `json:"intermission,omitempty"` // Card text while in the intermission phase
	Selection      string              `json:"selection,omitempty"`    // "ingredients selected: X and Y" while cooking
	Preview        *cooking.Result     `json:"preview,omitempty"`      // Live dish for the current selection while cooking
	LastResult     *cooking.Result     `json:"last_result,omitempty"`  // Most recently confirmed dish
	Traits         conditionals.Traits `json:"traits"`                 // Traits of the most recently confirmed dish
}

// View snapshots the session for rendering.
func (s *Session) View() View {
	sc := s.machine.Scene()
	st := s.machine.State()
	v := View{
		SessionID:      s.id.String(),
		Phase:          s.phase,
		Scene:          st.Scene,
		SceneTitle:     sc.Title,
		Frame:          st.Frame,
		FrameCount:     sc.FrameCount(),
		Speaker:        s.machine.Speaker(),
		Text:           s.machine.Text(),
		LeftCharacter:  s.machine.LeftCharacterAsset(),
		RightCharacter: s.machine.RightCharacterAsset(),
		Traits:         s.traits,
	}
	switch s.phase {
	case PhaseMinigame:
		preview := s.Preview()
		v.Selection = s.SelectionSummary()
		v.Preview = &preview
	case PhaseIntermission:
		v.Intermission = sc.Intermission
	}
	if s.last != nil {
		last := *s.last
		v.LastResult = &last
	}
	return v
}
