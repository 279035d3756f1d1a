package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// maxDriveDownload caps how much of a Drive file is read into memory
const maxDriveDownload = 10 << 20

// DriveService handles Google Drive API operations
type DriveService struct {
	client *drive.Service
}

// Ensure DriveService implements DriveServiceInterface
var _ DriveServiceInterface = (*DriveService)(nil)

// NewDriveService creates a new DriveService instance.
// credentialsJSON takes precedence over credentialsPath (path to the Service Account JSON file).
func NewDriveService(ctx context.Context, credentialsPath, credentialsJSON string) (*DriveService, error) {
	var opt option.ClientOption
	switch {
	case strings.TrimSpace(credentialsJSON) != "":
		opt = option.WithCredentialsJSON([]byte(credentialsJSON))
	case credentialsPath != "":
		opt = option.WithCredentialsFile(credentialsPath)
	default:
		return nil, fmt.Errorf("google drive credentials are not configured")
	}

	driveService, err := drive.NewService(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveService{
		client: driveService,
	}, nil
}

// DownloadFile downloads the content of a Drive file
func (ds *DriveService) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := ds.client.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file %s: status %d", fileID, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDriveDownload))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, nil
}

// UploadFile creates a file in a Drive folder and returns its ID
func (ds *DriveService) UploadFile(ctx context.Context, folderID, name, mimeType string, data []byte) (string, error) {
	file := &drive.File{
		Name:     name,
		MimeType: mimeType,
	}
	if folderID != "" {
		file.Parents = []string{folderID}
	}

	created, err := ds.client.Files.Create(file).
		Media(bytes.NewReader(data)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", name, err)
	}

	log.Info().Str("fileId", created.Id).Str("name", name).Msg("📤 Drive: file uploaded")
	return created.Id, nil
}
