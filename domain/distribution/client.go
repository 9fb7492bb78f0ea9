package distribution

import "context"

// Client defines the interface for the Drive operations the upload flow
// needs. This is a port implemented by the Google Drive infrastructure
// adapter so the application layer can be tested against a mock.
type Client interface {
	// FindFileByName returns the file with the given name in a folder,
	// or nil if none exists.
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	// DeletePermanently deletes a file permanently (bypasses trash).
	DeletePermanently(ctx context.Context, fileID string) error

	// UploadAndShare uploads a local file and sets "anyone with the link"
	// read permission.
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// FileInfo represents metadata about a file in Google Drive.
type FileInfo struct {
	ID   string
	Name string
	Size int64
}

// UploadRequest contains the parameters needed to upload one file.
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in Google Drive
	FolderID  string // Target folder ID in Google Drive
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload.
type UploadResult struct {
	FileID       string // Google Drive file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// MIME type constants for the containers OBS records to.
const (
	MimeTypeMatroska = "video/x-matroska"
	MimeTypeMP4      = "video/mp4"
)
