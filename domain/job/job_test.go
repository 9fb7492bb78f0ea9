package job

import (
	"testing"
	"time"

	"obs-clipper/domain/clip"
)

func TestJob_Validate(t *testing.T) {
	date1 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	date2 := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		job         Job
		wantErr     bool
		errContains string
	}{
		{
			name: "valid job",
			job: Job{
				VideoDir:  "/captures",
				OutputDir: "/clips",
				Videos: []clip.SourceVideo{
					{Date: date1, Title: "video 1"},
					{Date: date2, Title: "video 2", Epoch: 15},
				},
			},
		},
		{
			name:        "missing video dir",
			job:         Job{OutputDir: "/clips"},
			wantErr:     true,
			errContains: "video-dir",
		},
		{
			name:        "missing output dir",
			job:         Job{VideoDir: "/captures"},
			wantErr:     true,
			errContains: "output-dir",
		},
		{
			name: "duplicate dates are ambiguous",
			job: Job{
				VideoDir:  "/captures",
				OutputDir: "/clips",
				Videos: []clip.SourceVideo{
					{Date: date1, Title: "first"},
					{Date: date1, Title: "second"},
				},
			},
			wantErr:     true,
			errContains: "ambiguous",
		},
		{
			name: "negative epoch",
			job: Job{
				VideoDir:  "/captures",
				OutputDir: "/clips",
				Videos: []clip.SourceVideo{
					{Date: date1, Title: "video 1", Epoch: -1},
				},
			},
			wantErr:     true,
			errContains: "epoch",
		},
		{
			name: "untitled video",
			job: Job{
				VideoDir:  "/captures",
				OutputDir: "/clips",
				Videos: []clip.SourceVideo{
					{Date: date1},
				},
			},
			wantErr:     true,
			errContains: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Validate() expected error, got nil")
					return
				}
				if tt.errContains != "" && !contains(err.Error(), tt.errContains) {
					t.Errorf("Validate() error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
