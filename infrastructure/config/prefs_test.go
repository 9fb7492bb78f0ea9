package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write prefs file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writePrefs(t, `
job-path: "jobs/today.yaml"
video-dir: "/captures"
filename-replace:
  "/": "-"
  ":": "-"
google:
  credentials-file: "credentials.json"
  token-file: "token.json"
  folder-id: "abc123"
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	if p.JobPath != "jobs/today.yaml" {
		t.Errorf("JobPath = %q", p.JobPath)
	}
	if p.VideoDir != "/captures" {
		t.Errorf("VideoDir = %q", p.VideoDir)
	}
	// Unset fields keep their defaults.
	if p.OutputDir != "." {
		t.Errorf("OutputDir = %q, want default", p.OutputDir)
	}
	if p.ContainerExt != "mkv" {
		t.Errorf("ContainerExt = %q, want default mkv", p.ContainerExt)
	}
	if p.FilenameReplace["/"] != "-" || p.FilenameReplace[":"] != "-" {
		t.Errorf("FilenameReplace = %v", p.FilenameReplace)
	}
	if p.Google.FolderID != "abc123" {
		t.Errorf("Google.FolderID = %q", p.Google.FolderID)
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := writePrefs(t, "")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	want := Default()
	if p.JobPath != want.JobPath || p.VideoDir != want.VideoDir ||
		p.OutputDir != want.OutputDir || p.ContainerExt != want.ContainerExt {
		t.Errorf("Load() = %+v, want defaults", p)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "jobb-path: oops\n"},
		{"not yaml", "job-path: [unclosed\n"},
		{"empty replacement key", "filename-replace:\n  \"\": \"-\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePrefs(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, ErrConfigLoad) {
				t.Errorf("Load() error = %v, want ErrConfigLoad", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigLoad) {
		t.Errorf("Load() error = %v, want ErrConfigLoad", err)
	}
}

func TestOverlay(t *testing.T) {
	base := Default()
	base.FilenameReplace = map[string]string{"/": "-", "?": ""}

	got := Overlay(base, Overrides{
		JobPath:         "other.yaml",
		OutputDir:       "/clips",
		FilenameReplace: map[string]string{"?": "!", ":": "-"},
	})

	if got.JobPath != "other.yaml" {
		t.Errorf("JobPath = %q", got.JobPath)
	}
	if got.OutputDir != "/clips" {
		t.Errorf("OutputDir = %q", got.OutputDir)
	}
	// Untouched fields survive.
	if got.VideoDir != "." || got.ContainerExt != "mkv" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	// Replacement maps merge with override winning per key.
	if got.FilenameReplace["/"] != "-" || got.FilenameReplace["?"] != "!" || got.FilenameReplace[":"] != "-" {
		t.Errorf("FilenameReplace = %v", got.FilenameReplace)
	}
	// The original map is not mutated.
	if base.FilenameReplace["?"] != "" {
		t.Errorf("Overlay mutated its input: %v", base.FilenameReplace)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")

	want := Default()
	want.JobPath = "somewhere/clip.yaml"
	want.FilenameReplace = map[string]string{"/": "-"}
	if err := Save(want, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if got.JobPath != want.JobPath || got.FilenameReplace["/"] != "-" {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}
