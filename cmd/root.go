package cmd

import (
	"fmt"
	"os"
	"strings"

	"obs-clipper/infrastructure/config"

	"github.com/spf13/cobra"
)

var (
	prefsFile     string
	flagJobPath   string
	flagVideoDir  string
	flagOutputDir string
	flagExt       string
	flagReplace   []string
)

var rootCmd = &cobra.Command{
	Use:   "obs-clipper",
	Short: "Cut clips from OBS captures using ffmpeg and a YAML playbook",
	Long: `obs-clipper turns a declarative YAML playbook of source recordings and
time ranges into losslessly cut clip files with deterministic names:

  - Flexible time notation ("0", "5:00", "1:30:00")
  - Per-video virtual epochs for human-meaningful output timestamps
  - Collision-aware, filesystem-safe output filenames
  - Batch runs that collect per-clip failures instead of aborting

Example:
  obs-clipper run --job-path clip.yaml --dry-run`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&prefsFile, "prefs", "", "preferences file (default is ./prefs.yaml)")
	rootCmd.PersistentFlags().StringVarP(&flagJobPath, "job-path", "j", "", "path to the clip playbook")
	rootCmd.PersistentFlags().StringVarP(&flagVideoDir, "video-dir", "i", "", "source recording directory")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "clip output directory (must exist)")
	rootCmd.PersistentFlags().StringVar(&flagExt, "container-ext", "", "recording container extension (default mkv)")
	rootCmd.PersistentFlags().StringArrayVarP(&flagReplace, "filename-replace", "r", nil, "filename replacement as key=value (repeatable)")
}

// loadPrefs resolves the effective preferences: file values (when a file is
// present) overlaid with explicit flag values. An explicitly given prefs
// path must load; the default path is optional.
func loadPrefs() (config.Prefs, error) {
	p := config.Default()

	path := prefsFile
	explicit := path != ""
	if path == "" {
		path = config.DefaultPrefsPath
	}

	if _, err := os.Stat(path); err == nil || explicit {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Prefs{}, err
		}
		p = loaded
	}

	replace, err := parseReplaceFlags(flagReplace)
	if err != nil {
		return config.Prefs{}, err
	}

	return config.Overlay(p, config.Overrides{
		JobPath:         flagJobPath,
		VideoDir:        flagVideoDir,
		OutputDir:       flagOutputDir,
		ContainerExt:    flagExt,
		FilenameReplace: replace,
	}), nil
}

// parseReplaceFlags turns repeated key=value flags into a replacement map.
// "==x" replaces the "=" character itself with "x".
func parseReplaceFlags(values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	replace := make(map[string]string, len(values))
	for _, v := range values {
		var key, val string
		switch {
		case strings.HasPrefix(v, "=="):
			key, val = "=", v[2:]
		case strings.HasPrefix(v, "="), !strings.Contains(v, "="):
			return nil, fmt.Errorf("invalid replacement %q: expected key=value", v)
		default:
			parts := strings.SplitN(v, "=", 2)
			key, val = parts[0], parts[1]
		}
		replace[key] = val
	}
	return replace, nil
}
