package inputcore

import "fmt"

type (
	// ConfigLoadError is returned when a shortcut configuration cannot be read
	// or is structurally invalid. Nothing of the configuration has been
	// applied; callers should fall back to the default bindings.
	ConfigLoadError struct {
		Path string // empty when loading from a reader
		Err  error
	}

	// ConfigSaveError is returned when the shortcut configuration could not be
	// written. The in-memory bindings are unaffected.
	ConfigSaveError struct {
		Path string
		Err  error
	}
)

func (e *ConfigLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("loading key bindings failed: %v", e.Err)
	}
	return fmt.Sprintf("loading key bindings from %s failed: %v", e.Path, e.Err)
}

func (e *ConfigLoadError) Unwrap() error { return e.Err }

func (e *ConfigSaveError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("saving key bindings failed: %v", e.Err)
	}
	return fmt.Sprintf("saving key bindings to %s failed: %v", e.Path, e.Err)
}

func (e *ConfigSaveError) Unwrap() error { return e.Err }
