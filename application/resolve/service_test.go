package resolve

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"obs-clipper/domain/clip"
	"obs-clipper/domain/job"
)

// fakeChecker simulates file existence
type fakeChecker struct {
	existing map[string]bool
}

func (f *fakeChecker) Exists(path string) bool {
	return f.existing[path]
}

func workedExampleJob() job.Job {
	return job.Job{
		VideoDir:  "/captures",
		OutputDir: "/clips",
		Videos: []clip.SourceVideo{
			{
				Date:  time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
				Epoch: 15,
				Title: "video 2",
				Clips: []clip.Clip{
					{Time: "0 - 15", Title: "before the epoch"},
					{Time: "15 - 30", Title: "on the epoch"},
					{Time: "30 - 45", Title: "after the epoch"},
				},
			},
		},
	}
}

func TestResolve_WorkedExample(t *testing.T) {
	checker := &fakeChecker{existing: map[string]bool{
		"/clips": true,
		filepath.Join("/captures", "2020-01-02 00-00-00.mkv"): true,
	}}
	svc := NewService(checker, nil, "mkv")

	plan, err := svc.Resolve(workedExampleJob())
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(plan.Failures) != 0 {
		t.Fatalf("Resolve() failures = %v, want none", plan.Failures)
	}

	wantNames := []string{
		"2020-01-02 00-00-15 - t+0h00m00s - video 2 - before the epoch.mkv",
		"2020-01-02 00-00-15 - t+0h00m00s - video 2 - on the epoch.mkv",
		"2020-01-02 00-00-15 - t+0h00m15s - video 2 - after the epoch.mkv",
	}
	wantRanges := [][2]clip.Offset{{0, 15}, {15, 30}, {30, 45}}

	if len(plan.Instructions) != len(wantNames) {
		t.Fatalf("Resolve() produced %d instructions, want %d", len(plan.Instructions), len(wantNames))
	}
	for i, instr := range plan.Instructions {
		if got := filepath.Base(instr.DestinationPath); got != wantNames[i] {
			t.Errorf("instruction %d destination = %q, want %q", i, got, wantNames[i])
		}
		if instr.SourcePath != filepath.Join("/captures", "2020-01-02 00-00-00.mkv") {
			t.Errorf("instruction %d source = %q", i, instr.SourcePath)
		}
		// Cuts must use the raw range, never the epoch-adjusted one.
		if instr.Start != wantRanges[i][0] || instr.End != wantRanges[i][1] {
			t.Errorf("instruction %d range = (%d, %d), want (%d, %d)",
				i, instr.Start, instr.End, wantRanges[i][0], wantRanges[i][1])
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	checker := &fakeChecker{existing: map[string]bool{
		"/clips": true,
		filepath.Join("/captures", "2020-01-02 00-00-00.mkv"): true,
	}}
	svc := NewService(checker, nil, "mkv")

	first, err := svc.Resolve(workedExampleJob())
	if err != nil {
		t.Fatalf("first Resolve() unexpected error: %v", err)
	}
	second, err := svc.Resolve(workedExampleJob())
	if err != nil {
		t.Fatalf("second Resolve() unexpected error: %v", err)
	}

	if len(first.Instructions) != len(second.Instructions) {
		t.Fatalf("instruction counts differ: %d vs %d", len(first.Instructions), len(second.Instructions))
	}
	for i := range first.Instructions {
		if first.Instructions[i] != second.Instructions[i] {
			t.Errorf("instruction %d differs between runs: %+v vs %+v",
				i, first.Instructions[i], second.Instructions[i])
		}
	}
}

func TestResolve_BadClipDoesNotSinkSiblings(t *testing.T) {
	j := job.Job{
		VideoDir:  "/captures",
		OutputDir: "/clips",
		Videos: []clip.SourceVideo{
			{
				Date:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				Title: "video 1",
				Clips: []clip.Clip{
					{Time: "abc - 5:00", Title: "malformed token"},
					{Time: "1:60:00 - 2:00:00", Title: "minutes out of range"},
					{Time: "10 - 5", Title: "backwards"},
					{Time: "0 - 5:00", Title: "fine"},
				},
			},
		},
	}
	checker := &fakeChecker{existing: map[string]bool{
		"/clips": true,
		filepath.Join("/captures", "2020-01-01 00-00-00.mkv"): true,
	}}
	svc := NewService(checker, nil, "mkv")

	plan, err := svc.Resolve(j)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if len(plan.Instructions) != 1 {
		t.Fatalf("Resolve() produced %d instructions, want 1", len(plan.Instructions))
	}
	if got := plan.Instructions[0].End; got != 300 {
		t.Errorf("surviving clip end = %d, want 300", got)
	}

	if len(plan.Failures) != 3 {
		t.Fatalf("Resolve() recorded %d failures, want 3: %v", len(plan.Failures), plan.Failures)
	}
	wantErrs := []error{clip.ErrMalformedTime, clip.ErrMalformedTime, clip.ErrMalformedRange}
	for i, f := range plan.Failures {
		if !errors.Is(f.Err, wantErrs[i]) {
			t.Errorf("failure %d = %v, want %v", i, f.Err, wantErrs[i])
		}
	}
}

func TestResolve_MissingSourceSkipsVideoOnly(t *testing.T) {
	j := job.Job{
		VideoDir:  "/captures",
		OutputDir: "/clips",
		Videos: []clip.SourceVideo{
			{
				Date:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				Title: "gone",
				Clips: []clip.Clip{{Time: "0 - 5", Title: "a"}, {Time: "5 - 10", Title: "b"}},
			},
			{
				Date:  time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
				Title: "present",
				Clips: []clip.Clip{{Time: "0 - 5", Title: "c"}},
			},
		},
	}
	checker := &fakeChecker{existing: map[string]bool{
		"/clips": true,
		filepath.Join("/captures", "2020-01-02 00-00-00.mkv"): true,
	}}
	svc := NewService(checker, nil, "mkv")

	plan, err := svc.Resolve(j)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if len(plan.Failures) != 1 {
		t.Fatalf("Resolve() recorded %d failures, want 1", len(plan.Failures))
	}
	if !errors.Is(plan.Failures[0].Err, clip.ErrMissingSource) {
		t.Errorf("failure = %v, want ErrMissingSource", plan.Failures[0].Err)
	}
	if plan.Failures[0].ClipTitle != "" {
		t.Errorf("missing source should be a per-video failure, got clip %q", plan.Failures[0].ClipTitle)
	}

	if len(plan.Instructions) != 1 {
		t.Fatalf("Resolve() produced %d instructions, want 1", len(plan.Instructions))
	}
}

func TestResolve_UnsafeFilenameSkipsClip(t *testing.T) {
	j := job.Job{
		VideoDir:  "/captures",
		OutputDir: "/clips",
		Videos: []clip.SourceVideo{
			{
				Date:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
				Title: "video 1",
				Clips: []clip.Clip{
					{Time: "0 - 5", Title: "with/slash"},
					{Time: "5 - 10", Title: "clean"},
				},
			},
		},
	}
	checker := &fakeChecker{existing: map[string]bool{
		"/clips": true,
		filepath.Join("/captures", "2020-01-01 00-00-00.mkv"): true,
	}}

	// Without a replacement map the slash is fatal for that clip only.
	plan, err := NewService(checker, nil, "mkv").Resolve(j)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(plan.Instructions) != 1 || len(plan.Failures) != 1 {
		t.Fatalf("got %d instructions and %d failures, want 1 and 1", len(plan.Instructions), len(plan.Failures))
	}
	if !errors.Is(plan.Failures[0].Err, clip.ErrUnsafeFilename) {
		t.Errorf("failure = %v, want ErrUnsafeFilename", plan.Failures[0].Err)
	}

	// A replacement map sanitizes the title before the denylist check runs.
	plan, err = NewService(checker, clip.Replace{"/": "-"}, "mkv").Resolve(j)
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(plan.Instructions) != 2 || len(plan.Failures) != 0 {
		t.Fatalf("got %d instructions and %d failures, want 2 and 0", len(plan.Instructions), len(plan.Failures))
	}
	if got := filepath.Base(plan.Instructions[0].DestinationPath); !containsStr(got, "with-slash") {
		t.Errorf("destination %q does not contain sanitized title", got)
	}
}

func TestResolve_MissingOutputDirIsFatal(t *testing.T) {
	checker := &fakeChecker{existing: map[string]bool{}}
	svc := NewService(checker, nil, "mkv")

	if _, err := svc.Resolve(workedExampleJob()); err == nil {
		t.Error("Resolve() expected error for missing output directory, got nil")
	}
}

func containsStr(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
