//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"obs-clipper/cmd"
	"obs-clipper/domain/clip"
	"obs-clipper/infrastructure/config"

	"github.com/cucumber/godog"
)

// mockCutter records cut instructions instead of invoking ffmpeg
type mockCutter struct {
	calls       []clip.CutInstruction
	shouldFail  bool
	failError   error
	fileChecker *mockFileChecker // Reference to mark output files as existing
}

func (m *mockCutter) Cut(ctx context.Context, instr clip.CutInstruction) error {
	if m.shouldFail {
		return m.failError
	}
	m.calls = append(m.calls, instr)
	// Mark the output file as existing so reruns would skip it
	if m.fileChecker != nil {
		m.fileChecker.existingFiles[instr.DestinationPath] = true
	}
	return nil
}

// mockFileChecker simulates file existence
type mockFileChecker struct {
	existingFiles map[string]bool
}

func (m *mockFileChecker) Exists(path string) bool {
	return m.existingFiles[path]
}

// runContext holds test state for run scenarios
type runContext struct {
	playbookPath string
	cutter       *mockCutter
	fileChecker  *mockFileChecker
	output       *bytes.Buffer
	err          error
	lastClipPath string
}

// SharedRunContext is reset before each scenario via Before hook
var SharedRunContext *runContext

func getRunContext() *runContext {
	return SharedRunContext
}

func InitializeRunScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		fileChecker := &mockFileChecker{
			existingFiles: make(map[string]bool),
		}
		SharedRunContext = &runContext{
			cutter:      &mockCutter{fileChecker: fileChecker},
			fileChecker: fileChecker,
			output:      &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedRunContext != nil && SharedRunContext.playbookPath != "" {
			os.Remove(SharedRunContext.playbookPath)
		}
		SharedRunContext = nil
		return c, nil
	})

	ctx.Step(`^the output directory "([^"]*)" exists$`, theOutputDirectoryExists)
	ctx.Step(`^the recording "([^"]*)" exists$`, theRecordingExists)
	ctx.Step(`^the clip "([^"]*)" already exists$`, theClipAlreadyExists)
	ctx.Step(`^a playbook:$`, aPlaybook)
	ctx.Step(`^I run the cutting job$`, iRunTheCuttingJob)
	ctx.Step(`^I preview the cutting job$`, iPreviewTheCuttingJob)
	ctx.Step(`^the run should succeed$`, theRunShouldSucceed)
	ctx.Step(`^the run should fail mentioning "([^"]*)"$`, theRunShouldFailMentioning)
	ctx.Step(`^(\d+) cuts? should be performed$`, cutsShouldBePerformed)
	ctx.Step(`^a clip named "([^"]*)" should be created$`, aClipNamedShouldBeCreated)
	ctx.Step(`^that cut should span "([^"]*)" to "([^"]*)"$`, thatCutShouldSpan)
	ctx.Step(`^the output should mention "([^"]*)"$`, theOutputShouldMention)
}

func theOutputDirectoryExists(dir string) error {
	r := getRunContext()
	r.fileChecker.existingFiles[dir] = true
	return nil
}

func theRecordingExists(path string) error {
	r := getRunContext()
	r.fileChecker.existingFiles[path] = true
	return nil
}

func theClipAlreadyExists(path string) error {
	r := getRunContext()
	r.fileChecker.existingFiles[path] = true
	return nil
}

func aPlaybook(doc *godog.DocString) error {
	r := getRunContext()
	f, err := os.CreateTemp("", "playbook-*.yaml")
	if err != nil {
		return fmt.Errorf("create playbook: %v", err)
	}
	if _, err := f.WriteString(doc.Content + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write playbook: %v", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.playbookPath = f.Name()
	return nil
}

func runJob(dryRun bool) error {
	r := getRunContext()
	prefs := config.Default()
	prefs.JobPath = r.playbookPath

	r.err = cmd.RunJobWithDependencies(
		context.Background(),
		r.cutter,
		r.fileChecker,
		prefs,
		dryRun,
		1,
		r.output,
	)
	return nil
}

func iRunTheCuttingJob() error {
	return runJob(false)
}

func iPreviewTheCuttingJob() error {
	return runJob(true)
}

func theRunShouldSucceed() error {
	r := getRunContext()
	if r.err != nil {
		return fmt.Errorf("unexpected error: %v\noutput:\n%s", r.err, r.output.String())
	}
	return nil
}

func theRunShouldFailMentioning(substr string) error {
	r := getRunContext()
	if r.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(r.err.Error(), substr) {
		return fmt.Errorf("expected error mentioning %q, got: %v", substr, r.err)
	}
	return nil
}

func cutsShouldBePerformed(count int) error {
	r := getRunContext()
	if len(r.cutter.calls) != count {
		return fmt.Errorf("expected %d cuts, got %d", count, len(r.cutter.calls))
	}
	return nil
}

func aClipNamedShouldBeCreated(name string) error {
	r := getRunContext()
	for _, call := range r.cutter.calls {
		if filepath.Base(call.DestinationPath) == name {
			r.lastClipPath = call.DestinationPath
			return nil
		}
	}
	return fmt.Errorf("no cut produced %q, cuts: %v", name, destinations(r.cutter.calls))
}

func thatCutShouldSpan(start, end string) error {
	r := getRunContext()
	for _, call := range r.cutter.calls {
		if call.DestinationPath == r.lastClipPath {
			if call.Start.String() != start || call.End.String() != end {
				return fmt.Errorf("cut spans %s to %s, expected %s to %s",
					call.Start, call.End, start, end)
			}
			return nil
		}
	}
	return fmt.Errorf("no cut recorded for %q", r.lastClipPath)
}

func theOutputShouldMention(substr string) error {
	r := getRunContext()
	if !strings.Contains(r.output.String(), substr) {
		return fmt.Errorf("output does not mention %q:\n%s", substr, r.output.String())
	}
	return nil
}

func destinations(calls []clip.CutInstruction) []string {
	paths := make([]string, 0, len(calls))
	for _, c := range calls {
		paths = append(paths, c.DestinationPath)
	}
	return paths
}
