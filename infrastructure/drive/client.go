package drive

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"obs-clipper/domain/distribution"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error)
	CreateFile(ctx context.Context, file *drive.File, content *os.File) (*drive.File, error)
	CreatePermission(ctx context.Context, fileID string, perm *drive.Permission) error
	DeleteFile(ctx context.Context, fileID string) error
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// CreateFile uploads a file's content
func (s *GoogleDriveService) CreateFile(ctx context.Context, file *drive.File, content *os.File) (*drive.File, error) {
	return s.service.Files.Create(file).
		Media(content).
		Fields("id, name, size, webViewLink").
		Context(ctx).
		Do()
}

// CreatePermission adds a permission to a file
func (s *GoogleDriveService) CreatePermission(ctx context.Context, fileID string, perm *drive.Permission) error {
	_, err := s.service.Permissions.Create(fileID, perm).Context(ctx).Do()
	return err
}

// DeleteFile deletes a file permanently
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).Context(ctx).Do()
}

// Client implements distribution.Client using the Google Drive API
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// NewClient creates a Drive client authenticated via the OAuth flow. The
// token is cached at tokenPath so the browser round trip happens once.
func NewClient(ctx context.Context, credentialsPath, tokenPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newOAuthDriveService(ctx, credentialsPath, tokenPath)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

// FindFileByName implements distribution.Client
func (c *Client) FindFileByName(ctx context.Context, folderID, name string) (*distribution.FileInfo, error) {
	query := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false",
		folderID, strings.ReplaceAll(name, "'", `\'`))
	files, err := c.driveService.ListFiles(ctx, query, "id, name, size")
	if err != nil {
		return nil, fmt.Errorf("failed to search folder: %w", err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	f := files[0]
	return &distribution.FileInfo{ID: f.Id, Name: f.Name, Size: f.Size}, nil
}

// DeletePermanently implements distribution.Client
func (c *Client) DeletePermanently(ctx context.Context, fileID string) error {
	if err := c.driveService.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// UploadAndShare implements distribution.Client
func (c *Client) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	content, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", req.LocalPath, err)
	}
	defer content.Close()

	meta := &drive.File{
		Name:     req.FileName,
		MimeType: req.MimeType,
		Parents:  []string{req.FolderID},
	}
	uploaded, err := c.driveService.CreateFile(ctx, meta, content)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if err := c.driveService.CreatePermission(ctx, uploaded.Id, perm); err != nil {
		return nil, fmt.Errorf("failed to set sharing permission: %w", err)
	}

	return &distribution.UploadResult{
		FileID:       uploaded.Id,
		FileName:     uploaded.Name,
		ShareableURL: uploaded.WebViewLink,
		Size:         uploaded.Size,
	}, nil
}

// Ensure Client implements distribution.Client
var _ distribution.Client = (*Client)(nil)
