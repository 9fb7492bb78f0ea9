package clip

import "errors"

// Sentinel errors for the resolution pipeline. Per-clip and per-video errors
// wrap these so callers can classify failures with errors.Is.
var (
	ErrMalformedTime  = errors.New("malformed time")
	ErrMalformedRange = errors.New("malformed time range")
	ErrMissingSource  = errors.New("missing source video")
	ErrUnsafeFilename = errors.New("unsafe filename")
	ErrCutFailed      = errors.New("cut failed")
)
