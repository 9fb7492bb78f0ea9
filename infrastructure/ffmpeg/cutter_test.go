package ffmpeg

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"obs-clipper/domain/clip"
)

// recordingRunner captures the command that would have been executed
type recordingRunner struct {
	name string
	args []string
	err  error
}

func (r *recordingRunner) Run(ctx context.Context, name string, args ...string) error {
	r.name = name
	r.args = args
	return r.err
}

func (r *recordingRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.name = name
	r.args = args
	return nil, r.err
}

func TestCutter_Cut(t *testing.T) {
	runner := &recordingRunner{}
	cutter := NewCutter(WithCommandRunner(runner))

	instr := clip.CutInstruction{
		SourcePath:      "/captures/2020-01-01 00-00-00.mkv",
		DestinationPath: "/clips/out.mkv",
		Start:           5400,
		End:             5401,
	}

	if err := cutter.Cut(context.Background(), instr); err != nil {
		t.Fatalf("Cut() unexpected error: %v", err)
	}

	if runner.name != "ffmpeg" {
		t.Errorf("command = %q, want ffmpeg", runner.name)
	}
	want := []string{
		"-ss", "5400",
		"-i", "/captures/2020-01-01 00-00-00.mkv",
		"-c:a", "copy",
		"-c:v", "copy",
		"-map", "0:v",
		"-map", "0:a",
		"-t", "1",
		"-y",
		"/clips/out.mkv",
	}
	if !reflect.DeepEqual(runner.args, want) {
		t.Errorf("args = %v, want %v", runner.args, want)
	}
}

func TestCutter_CutError(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 1")}
	cutter := NewCutter(WithCommandRunner(runner))

	err := cutter.Cut(context.Background(), clip.CutInstruction{Start: 0, End: 1})
	if err == nil {
		t.Fatal("Cut() expected error, got nil")
	}
}

func TestCutter_CustomPath(t *testing.T) {
	runner := &recordingRunner{}
	cutter := NewCutter(WithCommandRunner(runner), WithFFmpegPath("/opt/ffmpeg/bin/ffmpeg"))

	if err := cutter.VerifyInstalled(context.Background()); err != nil {
		t.Fatalf("VerifyInstalled() unexpected error: %v", err)
	}
	if runner.name != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("command = %q, want custom path", runner.name)
	}
}
