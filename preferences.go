package inputcore

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type (
	Preferences struct {
		Gesture GestureConfig     `yaml:"gesture"`
		MIDI    MIDIPreferences   `yaml:"midi"`
		Window  WindowPreferences `yaml:"window"`
		// YmlError is set when a custom preferences file exists but could
		// not be parsed; the defaults are used in that case.
		YmlError error `yaml:"-"`
	}

	MIDIPreferences struct {
		Input      string `yaml:"input"`      // prefix of the input port to open at startup
		BufferSize int    `yaml:"buffersize"` // capacity of the message channel
	}

	WindowPreferences struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}
)

const configDirName = "inputcore"

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// ConfigPath returns the path of a file in the user's configuration
// directory.
func ConfigPath(filename string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configDirName, filename), nil
}

func DefaultPreferences() Preferences {
	var p Preferences
	if err := yaml.UnmarshalStrict(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return p
}

// ParsePreferences reads preferences from YAML, using the defaults for
// everything not given. Unknown fields are an error.
func ParsePreferences(data []byte) (Preferences, error) {
	p := DefaultPreferences()
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return DefaultPreferences(), err
	}
	if p.MIDI.BufferSize <= 0 {
		return DefaultPreferences(), fmt.Errorf("midi buffersize must be positive, got %d", p.MIDI.BufferSize)
	}
	return p, nil
}

// MakePreferences returns the defaults overridden by preferences.yml in the
// configuration directory, if it exists.
func MakePreferences() Preferences {
	path, err := ConfigPath("preferences.yml")
	if err != nil {
		return DefaultPreferences()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultPreferences()
	}
	p, err := ParsePreferences(data)
	p.YmlError = err
	return p
}
