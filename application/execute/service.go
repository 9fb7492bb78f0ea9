package execute

import (
	"context"
	"fmt"
	"io"
	"sync"

	"obs-clipper/domain/clip"
)

// Status classifies what happened to one instruction.
type Status int

const (
	// StatusDone means the clip was cut and written.
	StatusDone Status = iota
	// StatusSkipped means the destination already existed; reruns are
	// idempotent because skipped clips never reach the cutter.
	StatusSkipped
	// StatusFailed means the cutter reported an error.
	StatusFailed
	// StatusCanceled means the run was interrupted before this cut was
	// dispatched. In-flight cuts finish on their own.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusCanceled:
		return "canceled"
	}
	return "unknown"
}

// Outcome is the result of executing one instruction.
type Outcome struct {
	Instruction clip.CutInstruction
	Status      Status
	Err         error
}

// Service runs a plan's cut instructions against a Cutter.
type Service struct {
	cutter   clip.Cutter
	checker  clip.FileChecker
	parallel int
	output   io.Writer
	mu       sync.Mutex
}

// NewService creates an executor. parallel bounds how many source files are
// cut from at once; cuts drawn from the same recording always serialize so
// one read stream per file is enough.
func NewService(cutter clip.Cutter, checker clip.FileChecker, parallel int, output io.Writer) *Service {
	if parallel < 1 {
		parallel = 1
	}
	if output == nil {
		output = io.Discard
	}
	return &Service{
		cutter:   cutter,
		checker:  checker,
		parallel: parallel,
		output:   output,
	}
}

type indexedInstruction struct {
	idx   int
	instr clip.CutInstruction
}

// Run executes every instruction and returns outcomes in the same order the
// instructions were given. Failures never abort the batch; cancellation
// stops further dispatch and marks the remainder canceled.
func (s *Service) Run(ctx context.Context, instrs []clip.CutInstruction) []Outcome {
	outcomes := make([]Outcome, len(instrs))

	// Group by source so cuts from one recording run back to back on a
	// single worker.
	var order []string
	groups := make(map[string][]indexedInstruction)
	for i, instr := range instrs {
		if _, ok := groups[instr.SourcePath]; !ok {
			order = append(order, instr.SourcePath)
		}
		groups[instr.SourcePath] = append(groups[instr.SourcePath], indexedInstruction{i, instr})
	}

	workers := s.parallel
	if workers > len(order) {
		workers = len(order)
	}
	if workers < 1 {
		return outcomes
	}

	work := make(chan []indexedInstruction)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for group := range work {
				s.runGroup(ctx, group, outcomes)
			}
		}()
	}
	for _, src := range order {
		work <- groups[src]
	}
	close(work)
	wg.Wait()

	return outcomes
}

func (s *Service) runGroup(ctx context.Context, group []indexedInstruction, outcomes []Outcome) {
	for _, item := range group {
		outcomes[item.idx] = s.runOne(ctx, item.instr)
	}
}

func (s *Service) runOne(ctx context.Context, instr clip.CutInstruction) Outcome {
	out := Outcome{Instruction: instr}

	if ctx.Err() != nil {
		out.Status = StatusCanceled
		out.Err = ctx.Err()
		return out
	}

	if s.checker.Exists(instr.DestinationPath) {
		out.Status = StatusSkipped
		s.printf("Skipped (already exists): %s\n", instr.DestinationPath)
		return out
	}

	if err := s.cutter.Cut(ctx, instr); err != nil {
		out.Status = StatusFailed
		out.Err = fmt.Errorf("%w: %v", clip.ErrCutFailed, err)
		s.printf("Failed: %s: %v\n", instr.DestinationPath, err)
		return out
	}

	out.Status = StatusDone
	s.printf("Created: %s\n", instr.DestinationPath)
	return out
}

// printf serializes progress lines from concurrent workers.
func (s *Service) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.output, format, args...)
}
