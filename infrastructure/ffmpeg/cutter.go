package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"obs-clipper/domain/clip"
)

// CommandRunner defines the interface for running external commands
// This allows mocking exec.Command in tests
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecCommandRunner is the production implementation using os/exec
type ExecCommandRunner struct{}

// Run executes a command and returns any error
func (r *ExecCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Output executes a command and returns its output
func (r *ExecCommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}

// Cutter implements clip.Cutter using ffmpeg stream copy: fast, lossless,
// and seek accuracy limited to the container's keyframes.
type Cutter struct {
	ffmpegPath string
	runner     CommandRunner
}

// CutterOption is a functional option for configuring Cutter
type CutterOption func(*Cutter)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) CutterOption {
	return func(c *Cutter) {
		c.ffmpegPath = path
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) CutterOption {
	return func(c *Cutter) {
		c.runner = runner
	}
}

// NewCutter creates a new FFmpeg-based cutter
func NewCutter(opts ...CutterOption) *Cutter {
	c := &Cutter{
		ffmpegPath: "ffmpeg",
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Cut implements clip.Cutter
func (c *Cutter) Cut(ctx context.Context, instr clip.CutInstruction) error {
	args := []string{
		"-ss", strconv.Itoa(instr.Start.Seconds()),
		"-i", instr.SourcePath,
		"-c:a", "copy",
		"-c:v", "copy",
		"-map", "0:v",
		"-map", "0:a",
		"-t", strconv.Itoa(instr.End.Seconds() - instr.Start.Seconds()),
		"-y", // Overwrite output file if it exists
		instr.DestinationPath,
	}

	if err := c.runner.Run(ctx, c.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg cut failed: %w", err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (c *Cutter) VerifyInstalled(ctx context.Context) error {
	_, err := c.runner.Output(ctx, c.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Cutter implements clip.Cutter
var _ clip.Cutter = (*Cutter)(nil)
