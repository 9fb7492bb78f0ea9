package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"obs-clipper/application/execute"
	"obs-clipper/application/resolve"
	"obs-clipper/domain/clip"
	"obs-clipper/infrastructure/config"
	"obs-clipper/infrastructure/ffmpeg"
	"obs-clipper/infrastructure/filesystem"
	"obs-clipper/infrastructure/jobfile"

	"github.com/spf13/cobra"
)

var (
	runDryRun   bool
	runParallel int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve the playbook and cut every requested clip",
	Long: `Resolve the playbook into cut instructions and execute them with ffmpeg.

Every clip and video is resolved before any cut runs, so you get a complete
pre-flight view of what will be produced and what cannot be. Already existing
destination files are skipped, which makes reruns idempotent. A per-clip
failure never aborts the batch; the exit status reports whether any occurred.

Example:
  obs-clipper run
  obs-clipper run --dry-run
  obs-clipper run --parallel 2 -r "/=-"`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "resolve and report without cutting anything")
	runCmd.Flags().IntVar(&runParallel, "parallel", 1, "number of source files to cut from at once")
}

func runRun(cmd *cobra.Command, args []string) error {
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}

	cutter := ffmpeg.NewCutter()
	checker := filesystem.NewChecker()

	return RunJobWithDependencies(cmd.Context(), cutter, checker, prefs, runDryRun, runParallel, os.Stdout)
}

// RunJobWithDependencies runs the run command with injected dependencies (for testing)
func RunJobWithDependencies(
	ctx context.Context,
	cutter clip.Cutter,
	checker clip.FileChecker,
	prefs config.Prefs,
	dryRun bool,
	parallel int,
	output io.Writer,
) error {
	j, err := jobfile.Load(prefs.JobPath, prefs.VideoDir, prefs.OutputDir)
	if err != nil {
		return err
	}

	resolver := resolve.NewService(checker, clip.Replace(prefs.FilenameReplace), prefs.ContainerExt)
	plan, err := resolver.Resolve(j)
	if err != nil {
		return err
	}

	fmt.Fprintf(output, "Resolved %d cuts, %d failures\n\n", len(plan.Instructions), len(plan.Failures))

	var failed int
	if dryRun {
		for _, instr := range plan.Instructions {
			fmt.Fprintf(output, "Would cut %s [%s - %s] -> %s\n",
				instr.SourcePath, instr.Start, instr.End, instr.DestinationPath)
		}
	} else {
		// Fail fast when ffmpeg is unusable rather than once per clip.
		if verifiable, ok := cutter.(interface{ VerifyInstalled(context.Context) error }); ok {
			verifyCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := verifiable.VerifyInstalled(verifyCtx); err != nil {
				return fmt.Errorf("ffmpeg verification failed: %w", err)
			}
		}

		executor := execute.NewService(cutter, checker, parallel, output)
		for _, outcome := range executor.Run(ctx, plan.Instructions) {
			if outcome.Status == execute.StatusFailed || outcome.Status == execute.StatusCanceled {
				failed++
			}
		}
	}

	if len(plan.Failures) > 0 {
		fmt.Fprintf(output, "\nUnresolved clips:\n")
		for _, f := range plan.Failures {
			fmt.Fprintf(output, "  %s\n", f)
		}
	}

	failed += len(plan.Failures)
	if failed > 0 {
		return fmt.Errorf("%d clips could not be produced", failed)
	}
	return nil
}
