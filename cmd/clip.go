package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"obs-clipper/domain/clip"
	"obs-clipper/infrastructure/config"
	"obs-clipper/infrastructure/filesystem"
	"obs-clipper/infrastructure/jobfile"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

// RecordingFinder locates recordings for prompt defaults
type RecordingFinder interface {
	NewestFile(dir, ext string) (string, error)
}

var clipCmd = &cobra.Command{
	Use:   "clip",
	Short: "Add a clip to the playbook interactively",
	Long: `Prompts for a recording, time range and title, and appends the clip to
the playbook. The newest recording in the video directory is offered as the
default, so tagging a moment from the capture still running is one Enter away.

The playbook file is created if it does not exist yet.`,
	RunE: runClip,
}

func init() {
	rootCmd.AddCommand(clipCmd)
}

func runClip(cmd *cobra.Command, args []string) error {
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}
	return RunClipWithPrompter(DefaultPrompter, filesystem.NewChecker(), prefs, os.Stdout)
}

// RunClipWithPrompter runs the clip command with injected dependencies (for testing)
func RunClipWithPrompter(prompter Prompter, finder RecordingFinder, prefs config.Prefs, output io.Writer) error {
	if err := jobfile.Init(prefs.JobPath, prefs.VideoDir, prefs.OutputDir); err != nil {
		return err
	}
	doc, err := jobfile.LoadDocument(prefs.JobPath)
	if err != nil {
		return err
	}

	videoDir := doc.VideoDir
	if videoDir == "" {
		videoDir = prefs.VideoDir
	}

	// The newest capture is the most likely one to tag.
	defaultDate := ""
	if newest, err := finder.NewestFile(videoDir, prefs.ContainerExt); err == nil {
		stem := strings.TrimSuffix(newest, "."+prefs.ContainerExt)
		if ts, err := time.Parse("2006-01-02 15-04-05", stem); err == nil {
			defaultDate = ts.Format("2006-01-02T15:04:05")
		}
	}

	dateStr, err := prompter.Input("Recording date (YYYY-MM-DDTHH:MM:SS):", defaultDate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	date, err := jobfile.ParseDate(strings.TrimSpace(dateStr))
	if err != nil {
		return err
	}

	timeRange, err := prompter.Input("Clip time range (start - end):", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if _, _, err := clip.ParseRange(timeRange); err != nil {
		return err
	}

	clipTitle, err := prompter.Input("Clip title:", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}

	// New videos need their own metadata; existing ones keep theirs.
	epoch, videoTitle := "", ""
	if !documentHasDate(doc, date) {
		videoTitle, err = prompter.Input("Video title:", "")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		epoch, err = prompter.Input("Epoch (virtual start time, e.g. 0 or 1:30):", "0")
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if _, err := clip.ParseOffset(epoch); err != nil {
			return err
		}
	}

	doc.AddClip(date, epoch, videoTitle, timeRange, clipTitle)
	if err := jobfile.Save(doc, prefs.JobPath); err != nil {
		return err
	}

	fmt.Fprintf(output, "Added clip %q (%s) to %s\n", clipTitle, timeRange, prefs.JobPath)
	return nil
}

func documentHasDate(doc *jobfile.Document, date time.Time) bool {
	for _, v := range doc.Videos {
		if existing, err := jobfile.ParseDate(v.Date); err == nil && existing.Equal(date) {
			return true
		}
	}
	return false
}
