package resolve

import (
	"fmt"
	"path/filepath"
	"time"

	"obs-clipper/domain/clip"
	"obs-clipper/domain/job"
)

// Failure records one clip or video that could not be resolved. ClipTitle is
// empty for per-video failures, which cover all of that video's clips.
type Failure struct {
	VideoTitle string
	VideoDate  time.Time
	ClipTitle  string
	ClipTime   string
	Err        error
}

func (f Failure) String() string {
	if f.ClipTitle == "" {
		return fmt.Sprintf("video %q (%s): %v", f.VideoTitle, f.VideoDate.Format("2006-01-02 15:04:05"), f.Err)
	}
	return fmt.Sprintf("video %q, clip %q (%s): %v", f.VideoTitle, f.ClipTitle, f.ClipTime, f.Err)
}

// Plan is the fully materialized result of resolving a job: every cut to
// perform plus every failure, both in declaration order. Nothing is cut
// until the whole plan exists, so callers get a complete pre-flight report.
type Plan struct {
	Instructions []clip.CutInstruction
	Failures     []Failure
}

// Service resolves a job description into a Plan.
type Service struct {
	checker  clip.FileChecker
	replace  clip.Replace
	ext      string
	denylist string
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithDenylist overrides the filename character denylist.
func WithDenylist(denylist string) Option {
	return func(s *Service) {
		s.denylist = denylist
	}
}

// NewService creates a resolver. containerExt is the recording container
// extension without the dot (e.g. "mkv"); it selects both the source lookup
// name and the output extension, since clips are stream copies.
func NewService(checker clip.FileChecker, replace clip.Replace, containerExt string, opts ...Option) *Service {
	s := &Service{
		checker:  checker,
		replace:  replace,
		ext:      containerExt,
		denylist: clip.DefaultDenylist,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve walks the job's videos and clips in declared order and produces
// the plan. Per-clip and per-video problems are collected as failures; only
// a missing output directory aborts, since no destination path would be
// valid.
func (s *Service) Resolve(j job.Job) (*Plan, error) {
	if !s.checker.Exists(j.OutputDir) {
		return nil, fmt.Errorf("output directory does not exist: %s", j.OutputDir)
	}

	plan := &Plan{}
	for _, v := range j.Videos {
		src := filepath.Join(j.VideoDir, v.SourceFilename(s.ext))
		if !s.checker.Exists(src) {
			plan.Failures = append(plan.Failures, Failure{
				VideoTitle: v.Title,
				VideoDate:  v.Date,
				Err:        fmt.Errorf("%w: %s", clip.ErrMissingSource, src),
			})
			continue
		}

		outputTS := v.OutputTimestamp()
		for _, c := range v.Clips {
			start, end, err := clip.ParseRange(c.Time)
			if err != nil {
				plan.Failures = append(plan.Failures, clipFailure(v, c, err))
				continue
			}

			name, err := clip.OutputFilename(outputTS, v.EpochAdjust(start), v.Title, c.Title, s.ext, s.replace, s.denylist)
			if err != nil {
				plan.Failures = append(plan.Failures, clipFailure(v, c, err))
				continue
			}

			// The cut range stays raw: the physical file's own timeline is
			// what gets sliced, whatever the epoch says.
			plan.Instructions = append(plan.Instructions, clip.CutInstruction{
				SourcePath:      src,
				DestinationPath: filepath.Join(j.OutputDir, name),
				Start:           start,
				End:             end,
			})
		}
	}
	return plan, nil
}

func clipFailure(v clip.SourceVideo, c clip.Clip, err error) Failure {
	return Failure{
		VideoTitle: v.Title,
		VideoDate:  v.Date,
		ClipTitle:  c.Title,
		ClipTime:   c.Time,
		Err:        err,
	}
}
