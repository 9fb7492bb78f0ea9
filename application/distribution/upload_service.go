package distribution

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"obs-clipper/domain/distribution"
)

// UploadService pushes produced clips to a Google Drive folder.
type UploadService struct {
	client   distribution.Client
	folderID string
	output   io.Writer
}

// NewUploadService creates a new upload service
func NewUploadService(client distribution.Client, folderID string, output io.Writer) *UploadService {
	if output == nil {
		output = io.Discard
	}
	return &UploadService{
		client:   client,
		folderID: folderID,
		output:   output,
	}
}

// UploadFailure records one clip that could not be uploaded.
type UploadFailure struct {
	Path string
	Err  error
}

// UploadClips uploads each local file in order and shares it publicly. A
// same-named file already in the folder is replaced, so re-uploading a rerun
// is idempotent. Per-file failures are collected, not fatal, matching the
// cutting pipeline's batch semantics.
func (s *UploadService) UploadClips(ctx context.Context, paths []string) ([]*distribution.UploadResult, []UploadFailure) {
	var results []*distribution.UploadResult
	var failures []UploadFailure

	for _, path := range paths {
		result, err := s.uploadAndShare(ctx, path)
		if err != nil {
			failures = append(failures, UploadFailure{Path: path, Err: err})
			fmt.Fprintf(s.output, "Failed: %s: %v\n", filepath.Base(path), err)
			continue
		}
		results = append(results, result)
		fmt.Fprintf(s.output, "Uploaded: %s (%.1f MB)\n      %s\n",
			result.FileName, float64(result.Size)/1024/1024, result.ShareableURL)
	}
	return results, failures
}

// uploadAndShare uploads one file, replacing any existing file of the same
// name in the target folder.
func (s *UploadService) uploadAndShare(ctx context.Context, path string) (*distribution.UploadResult, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}

	fileName := filepath.Base(path)

	existing, err := s.client.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "Replacing existing %s (%.1f MB)\n", existing.Name, float64(existing.Size)/1024/1024)
		if err := s.client.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	return s.client.UploadAndShare(ctx, distribution.UploadRequest{
		LocalPath: path,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  mimeTypeFor(path),
	})
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return distribution.MimeTypeMP4
	default:
		return distribution.MimeTypeMatroska
	}
}
