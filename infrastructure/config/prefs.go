package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigLoad marks fatal configuration problems: unreadable or
// unparsable preference files and job playbooks. Nothing resolves or cuts
// once one of these surfaces.
var ErrConfigLoad = errors.New("config load failed")

// DefaultPrefsPath is where preferences are looked for when no --prefs flag
// is given. A missing file at this path is fine; defaults apply.
const DefaultPrefsPath = "prefs.yaml"

// Prefs holds user preferences that choose default behavior. Loaded once at
// startup and never mutated afterwards; explicit CLI values are applied
// through Overlay, which returns a new value.
type Prefs struct {
	// FilenameReplace maps literal substrings to replacements applied to
	// every output filename.
	FilenameReplace map[string]string `yaml:"filename-replace"`
	// JobPath is the default playbook location.
	JobPath string `yaml:"job-path"`
	// VideoDir is the default source recording directory.
	VideoDir string `yaml:"video-dir"`
	// OutputDir is the default clip destination directory.
	OutputDir string `yaml:"output-dir"`
	// ContainerExt is the recording container extension without the dot.
	// It selects both source lookup names and output extensions.
	ContainerExt string `yaml:"container-ext"`
	// Google configures the optional Drive upload of produced clips.
	Google GooglePrefs `yaml:"google"`
}

// GooglePrefs contains Google Drive API settings.
type GooglePrefs struct {
	CredentialsFile string `yaml:"credentials-file"`
	TokenFile       string `yaml:"token-file"`
	FolderID        string `yaml:"folder-id"`
}

// Default returns the built-in preferences.
func Default() Prefs {
	return Prefs{
		JobPath:      "clip.yaml",
		VideoDir:     ".",
		OutputDir:    ".",
		ContainerExt: "mkv",
	}
}

// Load reads preferences from a YAML file on top of the defaults. Unknown
// keys and empty replacement keys are rejected so typos fail loudly instead
// of silently doing nothing.
func Load(path string) (Prefs, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Prefs{}, fmt.Errorf("%w: reading %s: %v", ErrConfigLoad, path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Prefs{}, fmt.Errorf("%w: parsing %s: %v", ErrConfigLoad, path, err)
	}

	for key := range p.FilenameReplace {
		if key == "" {
			return Prefs{}, fmt.Errorf("%w: %s: filename-replace key cannot be empty", ErrConfigLoad, path)
		}
	}

	return p, nil
}

// Save writes the preferences to the specified YAML file.
func Save(p Prefs, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences file: %w", err)
	}

	return nil
}

// Overrides carries explicit CLI-provided values. Zero fields leave the
// corresponding preference untouched.
type Overrides struct {
	JobPath         string
	VideoDir        string
	OutputDir       string
	ContainerExt    string
	FilenameReplace map[string]string
}

// Overlay applies explicit overrides on top of loaded preferences, field by
// field. Replacement entries merge: an override key shadows the preference
// entry of the same key, everything else stays.
func Overlay(p Prefs, o Overrides) Prefs {
	if o.JobPath != "" {
		p.JobPath = o.JobPath
	}
	if o.VideoDir != "" {
		p.VideoDir = o.VideoDir
	}
	if o.OutputDir != "" {
		p.OutputDir = o.OutputDir
	}
	if o.ContainerExt != "" {
		p.ContainerExt = o.ContainerExt
	}

	if len(o.FilenameReplace) > 0 {
		merged := make(map[string]string, len(p.FilenameReplace)+len(o.FilenameReplace))
		for k, v := range p.FilenameReplace {
			merged[k] = v
		}
		for k, v := range o.FilenameReplace {
			merged[k] = v
		}
		p.FilenameReplace = merged
	}

	return p
}
