package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/SeanSoulong/admin-bay/internal/storage"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// MaxUploadBytes caps the size of a single uploaded file.
const MaxUploadBytes = 10 << 20

// maxConcurrentUploads bounds the upload fan-out per request.
const maxConcurrentUploads = 4

// UploadService coordinates blob uploads and deletions.
type UploadService struct {
	store  storage.BlobStore
	logger *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(store storage.BlobStore, logger *slog.Logger) *UploadService {
	return &UploadService{
		store:  store,
		logger: logger,
	}
}

// UploadFileInput describes one file in an upload batch. Reader must be
// independently readable; batches are uploaded concurrently.
type UploadFileInput struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// UploadFileResult reports one file's outcome. Exactly one of URL or Error
// is set.
type UploadFileResult struct {
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Succeeded reports whether the file was stored.
func (r *UploadFileResult) Succeeded() bool {
	return r.Error == ""
}

// UploadFiles stores a batch of files under the given folder, uploading
// concurrently. A failing file does not abort the batch; its result carries
// the error instead. Results keep the input order.
func (s *UploadService) UploadFiles(ctx context.Context, folder string, files []*UploadFileInput) ([]UploadFileResult, error) {
	if !storage.IsValidFolder(folder) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid upload folder: %s", folder))
	}
	if len(files) == 0 {
		return nil, apperrors.InvalidInput("no files given")
	}

	results := make([]UploadFileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for i, f := range files {
		g.Go(func() error {
			results[i] = s.uploadOne(gctx, folder, f)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}

	succeeded := 0
	for i := range results {
		if results[i].Succeeded() {
			succeeded++
		}
	}
	s.logger.InfoContext(ctx, "upload batch finished",
		slog.String("folder", folder),
		slog.Int("total", len(files)),
		slog.Int("succeeded", succeeded),
	)

	return results, nil
}

// uploadOne stores a single file and maps any failure into its result.
func (s *UploadService) uploadOne(ctx context.Context, folder string, f *UploadFileInput) UploadFileResult {
	if strings.TrimSpace(f.FileName) == "" {
		return UploadFileResult{FileName: f.FileName, Error: "file name is required"}
	}
	if f.Size > MaxUploadBytes {
		return UploadFileResult{
			FileName: f.FileName,
			Error:    fmt.Sprintf("file exceeds the %d byte limit", MaxUploadBytes),
		}
	}

	out, err := s.store.Upload(ctx, &storage.UploadInput{
		Folder:      folder,
		FileName:    f.FileName,
		ContentType: f.ContentType,
		Size:        f.Size,
		Reader:      f.Reader,
		Progress:    s.progressLogger(ctx, f.FileName),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "file upload failed",
			slog.String("folder", folder),
			slog.String("file_name", f.FileName),
			slog.String("error", err.Error()),
		)
		return UploadFileResult{FileName: f.FileName, Error: err.Error()}
	}

	return UploadFileResult{FileName: f.FileName, URL: out.URL}
}

// progressLogger traces upload progress at quartile boundaries.
func (s *UploadService) progressLogger(ctx context.Context, fileName string) storage.ProgressFunc {
	return func(percent int) {
		if percent%25 != 0 {
			return
		}
		s.logger.DebugContext(ctx, "upload progress",
			slog.String("file_name", fileName),
			slog.Int("percent", percent),
		)
	}
}

// DeleteUpload removes a stored blob by its public URL. URLs that do not
// resolve to a stored object are skipped without error.
func (s *UploadService) DeleteUpload(ctx context.Context, rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return apperrors.InvalidInput("url is required")
	}

	if err := s.store.Delete(ctx, rawURL); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}

	s.logger.InfoContext(ctx, "blob deleted",
		slog.String("url", rawURL),
	)

	return nil
}
