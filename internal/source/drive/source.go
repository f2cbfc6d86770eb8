// Package drive lists and downloads invoice PDFs from a shared Google Drive
// folder on behalf of an authenticated user.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/AlellaGreenTech/Invoice-app/internal/common"
	"github.com/AlellaGreenTech/Invoice-app/internal/source"
)

// pdfQuery matches non-trashed PDFs directly inside a folder.
const pdfQuery = "'%s' in parents and mimeType='application/pdf' and trashed=false"

// maxDownloadSize caps a single PDF download (25MB).
const maxDownloadSize = 25 * 1024 * 1024

type Config struct {
	FolderID          string
	RequestsPerSecond float64
	Burst             int
}

// Source implements source.Source on top of the Drive v3 API.
type Source struct {
	svc      *drive.Service
	folderID string
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewSource builds a Drive source from an OAuth2 token source. Well below
// Google's 10 req/sec/user default when cfg leaves the rate empty.
func NewSource(ctx context.Context, ts oauth2.TokenSource, cfg Config, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 8.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}

	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, common.WrapError(err, "create drive service")
	}

	return &Source{
		svc:      svc,
		folderID: cfg.FolderID,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:   logger,
	}, nil
}

// ListFiles enumerates every PDF in the configured folder, following
// pagination until Drive stops handing out page tokens.
func (s *Source) ListFiles(ctx context.Context) ([]source.SourceFile, error) {
	start := time.Now()
	var files []source.SourceFile

	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := s.svc.Files.List().
			Q(fmt.Sprintf(pdfQuery, s.folderID)).
			Fields("nextPageToken, files(id, name, size)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		res, err := call.Do()
		if err != nil {
			return nil, wrapListError(err, s.folderID)
		}

		for _, f := range res.Files {
			files = append(files, source.SourceFile{
				ID:       f.Id,
				Name:     f.Name,
				ByteSize: f.Size,
			})
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	s.logger.Info("drive.list.done",
		"folder_id", s.folderID,
		"files", len(files),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return files, nil
}

// Download fetches a single PDF into memory.
func (s *Source) Download(ctx context.Context, fileID string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, common.NewAppError("DRIVE_DOWNLOAD",
			fmt.Sprintf("download file %s", fileID),
			errors.Join(common.ErrDownload, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadSize))
	if err != nil {
		return nil, common.NewAppError("DRIVE_DOWNLOAD",
			fmt.Sprintf("read file %s", fileID),
			errors.Join(common.ErrDownload, err))
	}

	s.logger.Debug("drive.download.done",
		"file_id", fileID,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return data, nil
}

// wrapListError maps folder-level API failures onto ErrAccess so callers can
// fail the whole batch instead of retrying per file.
func wrapListError(err error, folderID string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return common.NewAppError("DRIVE_ACCESS",
				fmt.Sprintf("folder %s not found or not accessible", folderID),
				errors.Join(common.ErrAccess, err))
		case http.StatusForbidden:
			return common.NewAppError("DRIVE_ACCESS",
				fmt.Sprintf("access to folder %s denied", folderID),
				errors.Join(common.ErrAccess, err))
		}
	}
	return common.WrapError(err, "list drive folder")
}
