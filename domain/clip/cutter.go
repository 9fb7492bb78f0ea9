package clip

import "context"

// CutInstruction is a fully resolved cut: where to read, where to write, and
// the start/end positions on the source's own timeline. Start and End are
// deliberately raw Offsets — epoch adjustment shapes the destination name
// only, never where the source is sliced.
type CutInstruction struct {
	SourcePath      string
	DestinationPath string
	Start           Offset
	End             Offset
}

// Cutter performs the media extraction for one instruction
// This is a port implemented by the ffmpeg infrastructure adapter
type Cutter interface {
	Cut(ctx context.Context, instr CutInstruction) error
}

// FileChecker defines the interface for checking file existence
// This is used to locate recordings and to skip already-produced clips
type FileChecker interface {
	// Exists returns true if the path exists
	Exists(path string) bool
}
