package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/SeanSoulong/admin-bay/internal/service"
	"github.com/SeanSoulong/admin-bay/pkg/httputil"
)

// maxUploadRequestBytes caps the whole multipart request body. Individual
// files are limited separately by the upload service.
const maxUploadRequestBytes = 48 << 20

// UploadHandler handles HTTP requests for blob uploads.
type UploadHandler struct {
	service *service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service: service,
		logger:  logger,
	}
}

// UploadFiles handles POST /api/v1/uploads/{folder}. The multipart body may
// carry several files; each file's outcome is reported individually. The
// response is 201 when every file was stored and 207 when some failed.
func (h *UploadHandler) UploadFiles(w http.ResponseWriter, r *http.Request) {
	folder := chi.URLParam(r, "folder")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "failed to parse multipart form: " + err.Error(),
			},
		})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.logger.WarnContext(r.Context(), "failed to clean up multipart form", slog.String("error", err.Error()))
		}
	}()

	files := collectFiles(r)
	if len(files) == 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: "at least one file is required",
			},
		})
		return
	}

	inputs := make([]*service.UploadFileInput, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_INPUT",
					Message: "failed to open uploaded file: " + err.Error(),
				},
			})
			return
		}
		defer f.Close()

		contentType := fh.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		inputs = append(inputs, &service.UploadFileInput{
			FileName:    fh.Filename,
			ContentType: contentType,
			Size:        fh.Size,
			Reader:      f,
		})
	}

	results, err := h.service.UploadFiles(r.Context(), folder, inputs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	status := http.StatusCreated
	for i := range results {
		if !results[i].Succeeded() {
			status = http.StatusMultiStatus
			break
		}
	}

	httputil.WriteJSON(w, status, httputil.Response{Data: httputil.NewListResponse(results)})
}

// collectFiles flattens the multipart file headers into a stable order.
// Field names are sorted so repeated requests yield the same result order.
func collectFiles(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}

	fields := make([]string, 0, len(r.MultipartForm.File))
	for name := range r.MultipartForm.File {
		fields = append(fields, name)
	}
	sort.Strings(fields)

	var files []*multipart.FileHeader
	for _, name := range fields {
		for _, fh := range r.MultipartForm.File[name] {
			files = append(files, fh)
		}
	}
	return files
}

// DeleteUpload handles DELETE /api/v1/uploads. The url query parameter names
// the blob to remove.
func (h *UploadHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")

	if err := h.service.DeleteUpload(r.Context(), rawURL); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"status": "deleted",
		"url":    rawURL,
	}})
}
