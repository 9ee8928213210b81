package scenario

// SceneID identifies a scene within a scenario.
type SceneID uint32

// Track tells the presentation layer what follows a scene once its last frame is shown.
type Track string

const (
	TrackDialogue     Track = "dialogue"     // Next dialogue scene follows directly
	TrackMinigame     Track = "minigame"     // Cooking happens before the next scene
	TrackIntermission Track = "intermission" // A break card is shown, then dialogue resumes
)

// IsValid reports whether t is a known track. The empty track reads as dialogue.
func (t Track) IsValid() bool {
	switch t {
	case "", TrackDialogue, TrackMinigame, TrackIntermission:
		return true
	}
	return false
}

// Scene is a contiguous block of dialogue frames around one narrative beat.
type Scene struct {
	ID             SceneID `json:"-"`                      // Filled from the scenes map key
	Title          string  `json:"title"`                  // Short label for menus and logs
	Track          Track   `json:"track,omitempty"`        // "dialogue" | "minigame" | "intermission"
	LeftCharacter  string  `json:"left_character"`         // Default sprite on the left
	RightCharacter string  `json:"right_character"`        // Default sprite on the right
	Frames         []Frame `json:"frames"`                 // At least one frame
	Intermission   string  `json:"intermission,omitempty"` // Card text for intermission scenes
}

// Frame is one line of dialogue. Character overrides apply only to this frame.
type Frame struct {
	Speaker        string `json:"speaker,omitempty"`
	Text           string `json:"text"`
	LeftCharacter  string `json:"left_character,omitempty"`
	RightCharacter string `json:"right_character,omitempty"`
}

// FrameCount returns the highest valid frame index.
func (s *Scene) FrameCount() uint32 {
	if len(s.Frames) == 0 {
		return 0
	}
	return uint32(len(s.Frames) - 1)
}

// TrackOrDefault returns the scene's track, treating an empty track as dialogue.
func (s *Scene) TrackOrDefault() Track {
	if s.Track == "" {
		return TrackDialogue
	}
	return s.Track
}

func (s *Scene) frame(frame uint32) (*Frame, error) {
	if len(s.Frames) == 0 {
		return nil, sceneError(s.ID, "scene has no frames")
	}
	if frame > s.FrameCount() {
		return nil, frameError(s.ID, frame, "frame exceeds frame count %d", s.FrameCount())
	}
	return &s.Frames[frame], nil
}

// Text returns the line shown on frame.
func (s *Scene) Text(frame uint32) (string, error) {
	f, err := s.frame(frame)
	if err != nil {
		return "", err
	}
	return f.Text, nil
}

// Speaker returns who says the line on frame, if anyone is named.
func (s *Scene) Speaker(frame uint32) (string, error) {
	f, err := s.frame(frame)
	if err != nil {
		return "", err
	}
	return f.Speaker, nil
}

// LeftCharacterAsset returns the left sprite for frame.
func (s *Scene) LeftCharacterAsset(frame uint32) (string, error) {
	f, err := s.frame(frame)
	if err != nil {
		return "", err
	}
	if f.LeftCharacter != "" {
		return f.LeftCharacter, nil
	}
	return s.LeftCharacter, nil
}

// RightCharacterAsset returns the right sprite for frame. Scenes swap the
// visitor on the right between frames, so overrides are common here.
func (s *Scene) RightCharacterAsset(frame uint32) (string, error) {
	f, err := s.frame(frame)
	if err != nil {
		return "", err
	}
	if f.RightCharacter != "" {
		return f.RightCharacter, nil
	}
	return s.RightCharacter, nil
}
