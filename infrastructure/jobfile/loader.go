package jobfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"obs-clipper/domain/clip"
	"obs-clipper/domain/job"
	"obs-clipper/infrastructure/config"
)

// Document mirrors the YAML playbook layout. Clip time ranges stay raw
// strings here; they are parsed during job resolution so a single bad clip
// fails individually rather than failing the load.
type Document struct {
	VideoDir  string     `yaml:"video-dir"`
	OutputDir string     `yaml:"output-dir"`
	Videos    []VideoDoc `yaml:"videos"`
}

// VideoDoc is one source video entry in the playbook.
type VideoDoc struct {
	Date  string    `yaml:"date"`
	Epoch string    `yaml:"epoch,omitempty"`
	Title string    `yaml:"title"`
	Clips []ClipDoc `yaml:"clips"`
}

// ClipDoc is one clip entry in the playbook.
type ClipDoc struct {
	Time  string `yaml:"time"`
	Title string `yaml:"title"`
}

// dateLayouts accepts both "T" and space as the date/time separator.
var dateLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"}

// ParseDate parses a playbook date value.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DDTHH:MM:SS", s)
}

// Load reads and validates a playbook into a domain Job. Directories the
// playbook leaves out fall back to the preference values. All problems at
// this stage are fatal configuration errors: the file is the single input
// the whole run hangs off.
func Load(path, defaultVideoDir, defaultOutputDir string) (job.Job, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return job.Job{}, err
	}

	j := job.Job{
		VideoDir:  doc.VideoDir,
		OutputDir: doc.OutputDir,
	}
	if j.VideoDir == "" {
		j.VideoDir = defaultVideoDir
	}
	if j.OutputDir == "" {
		j.OutputDir = defaultOutputDir
	}

	for _, v := range doc.Videos {
		date, err := ParseDate(v.Date)
		if err != nil {
			return job.Job{}, fmt.Errorf("%w: %s: video %q: %v", config.ErrConfigLoad, path, v.Title, err)
		}

		epoch := clip.Offset(0)
		if v.Epoch != "" {
			epoch, err = clip.ParseOffset(v.Epoch)
			if err != nil {
				return job.Job{}, fmt.Errorf("%w: %s: video %q: epoch: %v", config.ErrConfigLoad, path, v.Title, err)
			}
		}

		video := clip.SourceVideo{
			Date:  date,
			Epoch: epoch,
			Title: v.Title,
		}
		for _, c := range v.Clips {
			video.Clips = append(video.Clips, clip.Clip{Time: c.Time, Title: c.Title})
		}
		j.Videos = append(j.Videos, video)
	}

	if err := j.Validate(); err != nil {
		return job.Job{}, fmt.Errorf("%w: %s: %v", config.ErrConfigLoad, path, err)
	}
	return j, nil
}

// LoadDocument reads the playbook without domain conversion. The clip
// subcommand uses this to append entries and save the file back.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", config.ErrConfigLoad, path, err)
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parsing %s: %v", config.ErrConfigLoad, path, err)
	}
	return &doc, nil
}

// Save writes the playbook document back to disk.
func Save(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize playbook: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write playbook: %w", err)
	}
	return nil
}

// Init creates a skeleton playbook at path if none exists yet.
func Init(path, videoDir, outputDir string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return Save(&Document{VideoDir: videoDir, OutputDir: outputDir}, path)
}

// AddClip appends a clip to the video with the given date, creating the
// video entry first when it is not in the playbook yet.
func (d *Document) AddClip(date time.Time, epoch, videoTitle, timeRange, clipTitle string) {
	dateStr := date.Format("2006-01-02T15:04:05")
	for i := range d.Videos {
		// Dates may be authored with either separator; compare parsed values.
		if existing, err := ParseDate(d.Videos[i].Date); err == nil && existing.Equal(date) {
			d.Videos[i].Clips = append(d.Videos[i].Clips, ClipDoc{Time: timeRange, Title: clipTitle})
			return
		}
	}
	d.Videos = append(d.Videos, VideoDoc{
		Date:  dateStr,
		Epoch: epoch,
		Title: videoTitle,
		Clips: []ClipDoc{{Time: timeRange, Title: clipTitle}},
	})
}
