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
	"obs-clipper/infrastructure/config"
	"obs-clipper/infrastructure/jobfile"

	"github.com/cucumber/godog"
)

// mockPrompter answers prompts from a queue, empty answers accept the default
type mockPrompter struct {
	answers []string
}

func (m *mockPrompter) Input(message string, defaultValue string) (string, error) {
	if len(m.answers) == 0 {
		return "", fmt.Errorf("no answer queued for prompt %q", message)
	}
	answer := m.answers[0]
	m.answers = m.answers[1:]
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

func (m *mockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	return defaultValue, nil
}

// mockFinder reports a fixed newest capture
type mockFinder struct {
	newest string
}

func (m *mockFinder) NewestFile(dir, ext string) (string, error) {
	if m.newest == "" {
		return "", fmt.Errorf("no files with extension %q in %s", ext, dir)
	}
	return m.newest, nil
}

// clipContext holds test state for clip scenarios
type clipContext struct {
	workDir  string
	prompter *mockPrompter
	finder   *mockFinder
	output   *bytes.Buffer
	err      error
}

// SharedClipContext is reset before each scenario via Before hook
var SharedClipContext *clipContext

func getClipContext() *clipContext {
	return SharedClipContext
}

func (c *clipContext) playbookPath() string {
	return filepath.Join(c.workDir, "clip.yaml")
}

func (c *clipContext) prefs() config.Prefs {
	prefs := config.Default()
	prefs.JobPath = c.playbookPath()
	return prefs
}

func InitializeClipScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "clip-scenario-")
		if err != nil {
			return c, err
		}
		SharedClipContext = &clipContext{
			workDir:  dir,
			prompter: &mockPrompter{},
			finder:   &mockFinder{},
			output:   &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedClipContext != nil {
			os.RemoveAll(SharedClipContext.workDir)
		}
		SharedClipContext = nil
		return c, nil
	})

	ctx.Step(`^the newest capture is "([^"]*)"$`, theNewestCaptureIs)
	ctx.Step(`^the playbook already lists a video dated "([^"]*)" titled "([^"]*)"$`, thePlaybookAlreadyListsAVideo)
	ctx.Step(`^I will answer the prompts with:$`, iWillAnswerThePromptsWith)
	ctx.Step(`^I add a clip$`, iAddAClip)
	ctx.Step(`^I attempt to add a clip$`, iAttemptToAddAClip)
	ctx.Step(`^adding the clip should succeed$`, addingTheClipShouldSucceed)
	ctx.Step(`^adding the clip should fail mentioning "([^"]*)"$`, addingTheClipShouldFailMentioning)
	ctx.Step(`^the playbook should contain a video dated "([^"]*)"$`, thePlaybookShouldContainAVideoDated)
	ctx.Step(`^the playbook should contain (\d+) videos?$`, thePlaybookShouldContainVideos)
	ctx.Step(`^the playbook should contain a clip titled "([^"]*)" with time "([^"]*)"$`, thePlaybookShouldContainAClip)
}

func theNewestCaptureIs(name string) error {
	c := getClipContext()
	c.finder.newest = name
	return nil
}

func thePlaybookAlreadyListsAVideo(date, title string) error {
	c := getClipContext()
	doc := &jobfile.Document{
		VideoDir:  ".",
		OutputDir: ".",
		Videos: []jobfile.VideoDoc{
			{Date: date, Epoch: "0", Title: title},
		},
	}
	return jobfile.Save(doc, c.playbookPath())
}

func iWillAnswerThePromptsWith(table *godog.Table) error {
	c := getClipContext()
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		if len(row.Cells) < 2 {
			return fmt.Errorf("answers table needs prompt and answer columns")
		}
		c.answersAppend(row.Cells[1].Value)
	}
	return nil
}

func (c *clipContext) answersAppend(answer string) {
	c.prompter.answers = append(c.prompter.answers, strings.TrimSpace(answer))
}

func iAddAClip() error {
	c := getClipContext()
	c.err = cmd.RunClipWithPrompter(c.prompter, c.finder, c.prefs(), c.output)
	if c.err != nil {
		return fmt.Errorf("unexpected error: %v", c.err)
	}
	return nil
}

func iAttemptToAddAClip() error {
	c := getClipContext()
	c.err = cmd.RunClipWithPrompter(c.prompter, c.finder, c.prefs(), c.output)
	return nil
}

func addingTheClipShouldSucceed() error {
	c := getClipContext()
	if c.err != nil {
		return fmt.Errorf("expected success, got: %v", c.err)
	}
	return nil
}

func addingTheClipShouldFailMentioning(substr string) error {
	c := getClipContext()
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), substr) {
		return fmt.Errorf("expected error mentioning %q, got: %v", substr, c.err)
	}
	return nil
}

func thePlaybookShouldContainAVideoDated(date string) error {
	c := getClipContext()
	doc, err := jobfile.LoadDocument(c.playbookPath())
	if err != nil {
		return err
	}
	want, err := jobfile.ParseDate(date)
	if err != nil {
		return err
	}
	for _, v := range doc.Videos {
		if got, err := jobfile.ParseDate(v.Date); err == nil && got.Equal(want) {
			return nil
		}
	}
	return fmt.Errorf("no video dated %q in playbook", date)
}

func thePlaybookShouldContainVideos(count int) error {
	c := getClipContext()
	doc, err := jobfile.LoadDocument(c.playbookPath())
	if err != nil {
		return err
	}
	if len(doc.Videos) != count {
		return fmt.Errorf("playbook has %d videos, expected %d", len(doc.Videos), count)
	}
	return nil
}

func thePlaybookShouldContainAClip(title, timeRange string) error {
	c := getClipContext()
	doc, err := jobfile.LoadDocument(c.playbookPath())
	if err != nil {
		return err
	}
	for _, v := range doc.Videos {
		for _, cl := range v.Clips {
			if cl.Title == title && cl.Time == timeRange {
				return nil
			}
		}
	}
	return fmt.Errorf("no clip titled %q with time %q in playbook", title, timeRange)
}
