package job

import (
	"fmt"
	"time"

	"obs-clipper/domain/clip"
)

// Job is the resolved playbook: where recordings live, where clips go, and
// the ordered list of videos to cut from.
type Job struct {
	VideoDir  string
	OutputDir string
	Videos    []clip.SourceVideo
}

// Validate rejects playbooks that cannot resolve deterministically.
func (j Job) Validate() error {
	if j.VideoDir == "" {
		return fmt.Errorf("video-dir is required")
	}
	if j.OutputDir == "" {
		return fmt.Errorf("output-dir is required")
	}

	// Two videos with the same date would derive the same source filename,
	// so the playbook is ambiguous rather than first-match-wins.
	seen := make(map[time.Time]string, len(j.Videos))
	for _, v := range j.Videos {
		if v.Title == "" {
			return fmt.Errorf("video at %s: title is required", v.Date.Format("2006-01-02 15:04:05"))
		}
		if v.Epoch < 0 {
			return fmt.Errorf("video %q: epoch cannot be negative", v.Title)
		}
		if prev, ok := seen[v.Date]; ok {
			return fmt.Errorf("videos %q and %q share date %s: source filename is ambiguous",
				prev, v.Title, v.Date.Format("2006-01-02 15:04:05"))
		}
		seen[v.Date] = v.Title
	}
	return nil
}
