package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	appdist "obs-clipper/application/distribution"
	"obs-clipper/domain/distribution"
	"obs-clipper/infrastructure/config"
	"obs-clipper/infrastructure/drive"
	"obs-clipper/infrastructure/filesystem"
	"obs-clipper/infrastructure/jobfile"

	"github.com/spf13/cobra"
)

var uploadFolderID string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload produced clips to Google Drive with public sharing",
	Long: `Upload every clip in the output directory to a Google Drive folder and
set "anyone with the link" read permission. A same-named file already in the
folder is replaced, so re-uploading after a rerun is safe.

Requires Google credentials in the preferences file:

  google:
    credentials-file: "credentials.json"
    token-file: "token.json"
    folder-id: "<drive folder id>"

Example:
  obs-clipper upload
  obs-clipper upload --folder-id 1AbC...`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFolderID, "folder-id", "", "target Drive folder (overrides preferences)")
}

func runUpload(cmd *cobra.Command, args []string) error {
	prefs, err := loadPrefs()
	if err != nil {
		return err
	}

	folderID := uploadFolderID
	if folderID == "" {
		folderID = prefs.Google.FolderID
	}
	if folderID == "" || prefs.Google.CredentialsFile == "" {
		return fmt.Errorf("google credentials-file and folder-id must be configured for upload")
	}
	tokenFile := prefs.Google.TokenFile
	if tokenFile == "" {
		tokenFile = "token.json"
	}

	client, err := drive.NewClient(cmd.Context(), prefs.Google.CredentialsFile, tokenFile)
	if err != nil {
		return err
	}

	return RunUploadWithDependencies(cmd.Context(), client, filesystem.NewChecker(), prefs, folderID, os.Stdout)
}

// ClipLister lists produced clips in the output directory
type ClipLister interface {
	ListFiles(dir, ext string) ([]string, error)
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	client distribution.Client,
	lister ClipLister,
	prefs config.Prefs,
	folderID string,
	output io.Writer,
) error {
	j, err := jobfile.Load(prefs.JobPath, prefs.VideoDir, prefs.OutputDir)
	if err != nil {
		return err
	}

	names, err := lister.ListFiles(j.OutputDir, prefs.ContainerExt)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no .%s clips in %s", prefs.ContainerExt, j.OutputDir)
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(j.OutputDir, name)
	}

	fmt.Fprintf(output, "Uploading %d clips to folder %s...\n", len(paths), folderID)

	svc := appdist.NewUploadService(client, folderID, output)
	results, failures := svc.UploadClips(ctx, paths)

	fmt.Fprintf(output, "\nUploaded %d of %d clips\n", len(results), len(paths))
	if len(failures) > 0 {
		return fmt.Errorf("%d uploads failed", len(failures))
	}
	return nil
}
