package scenario

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks authoring defects in scenario content: missing scenes,
// missing frame text, missing branch rows. These are never user errors.
var ErrConfiguration = errors.New("scenario configuration defect")

// ConfigError describes where a configuration defect was found.
type ConfigError struct {
	Scene  SceneID
	Frame  *uint32 // Set when the defect is tied to a frame
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Frame != nil {
		return fmt.Sprintf("scene %d frame %d: %s", e.Scene, *e.Frame, e.Reason)
	}
	return fmt.Sprintf("scene %d: %s", e.Scene, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func sceneError(id SceneID, format string, args ...any) *ConfigError {
	return &ConfigError{Scene: id, Reason: fmt.Sprintf(format, args...)}
}

func frameError(id SceneID, frame uint32, format string, args ...any) *ConfigError {
	return &ConfigError{Scene: id, Frame: &frame, Reason: fmt.Sprintf(format, args...)}
}
