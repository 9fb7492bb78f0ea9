package clip

import "time"

// sourceTimeLayout is the OBS recording naming convention and doubles as the
// colon-free timestamp format used in output filenames.
const sourceTimeLayout = "2006-01-02 15-04-05"

// Clip describes one cut to take from a source video. Time holds the raw
// range expression exactly as authored ("0 - 5:00"); it is parsed during job
// resolution so a bad clip fails individually instead of sinking the
// playbook load.
type Clip struct {
	Time  string
	Title string
}

// SourceVideo is one recording and the clips to produce from it.
type SourceVideo struct {
	// Date is the recording's real start instant. It identifies the
	// physical file via the naming convention.
	Date time.Time
	// Epoch is the virtual zero point within the recording. Output
	// filenames are expressed relative to it; cutting never is.
	Epoch Offset
	// Title is the base title shared by all of this video's clips.
	Title string
	Clips []Clip
}

// SourceFilename returns the recording's filename under the video directory,
// following the fixed "YYYY-MM-DD HH-MM-SS.<ext>" convention.
func (v SourceVideo) SourceFilename(ext string) string {
	return v.Date.Format(sourceTimeLayout) + "." + ext
}

// OutputTimestamp is the wall-clock instant the epoch represents. It seeds
// the date component of every output filename for this video.
func (v SourceVideo) OutputTimestamp() time.Time {
	return v.Date.Add(v.Epoch.Duration())
}

// EpochAdjust converts a raw offset on the recording's timeline to
// epoch-relative time, floored at zero: a clip starting before the epoch is
// anchored at the epoch instant rather than a negative one.
func (v SourceVideo) EpochAdjust(raw Offset) EpochOffset {
	if raw <= v.Epoch {
		return 0
	}
	return EpochOffset(raw - v.Epoch)
}
