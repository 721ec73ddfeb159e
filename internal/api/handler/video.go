package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/hszk-dev/linkedin-dl/internal/api/middleware"
	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/scratch"
	"github.com/hszk-dev/linkedin-dl/internal/usecase"
)

const maxRequestBody = 1 << 20

// Request/Response types

type VideoRequest struct {
	URL string `json:"url"`
}

type ExtractResponse struct {
	Success     bool    `json:"success"`
	Title       string  `json:"title"`
	Duration    int     `json:"duration"`
	Thumbnail   *string `json:"thumbnail"`
	DownloadURL string  `json:"download_url"`
	Size        int64   `json:"size"`
}

// Sweeper runs opportunistic scratch directory cleanup.
type Sweeper interface {
	MaybeCleanup() scratch.SweepResult
}

// VideoHandler handles extraction and server-side download requests.
type VideoHandler struct {
	videos      usecase.VideoService
	downloads   usecase.DownloadService
	sweeper     Sweeper
	allowedHost string
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(
	videos usecase.VideoService,
	downloads usecase.DownloadService,
	sweeper Sweeper,
	allowedHost string,
) *VideoHandler {
	if allowedHost == "" {
		allowedHost = model.DefaultAllowedHost
	}
	return &VideoHandler{
		videos:      videos,
		downloads:   downloads,
		sweeper:     sweeper,
		allowedHost: allowedHost,
	}
}

// Extract handles POST /api/extract
func (h *VideoHandler) Extract(w http.ResponseWriter, r *http.Request) {
	h.sweeper.MaybeCleanup()

	url, err := h.decodeSourceURL(w, r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	extraction, err := h.videos.Extract(r.Context(), url)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, toExtractResponse(extraction))
}

// Download handles POST /api/download
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	h.sweeper.MaybeCleanup()

	url, err := h.decodeSourceURL(w, r)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	out, err := h.downloads.Download(r.Context(), url)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	defer out.File.Close()

	w.Header().Set("Content-Disposition", attachmentHeader(out.Filename))
	http.ServeContent(w, r, out.Filename, out.ModTime, out.File)
}

// decodeSourceURL reads the JSON body and validates its url field.
// A malformed body is treated as a missing URL.
func (h *VideoHandler) decodeSourceURL(w http.ResponseWriter, r *http.Request) (string, error) {
	var req VideoRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		return "", model.ErrMissingURL
	}
	return model.ValidateSourceURL(req.URL, h.allowedHost)
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		extractionErr *model.ExtractionError
		downloadErr   *model.DownloadError
	)

	switch {
	case errors.Is(err, model.ErrMissingURL):
		Error(w, http.StatusBadRequest, "Please provide a URL")
	case errors.Is(err, model.ErrInvalidSourceURL):
		Error(w, http.StatusBadRequest, "Please provide a valid LinkedIn URL")
	case errors.Is(err, model.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "No video found at this URL")
	case errors.As(err, &extractionErr):
		Error(w, http.StatusInternalServerError, "Failed to extract video: "+extractionErr.Error())
	case errors.Is(err, model.ErrDownloadTimeout):
		Error(w, http.StatusInternalServerError, "Download timed out")
	case errors.As(err, &downloadErr):
		Error(w, http.StatusInternalServerError, "Download failed: "+downloadErr.Error())
	case errors.Is(err, model.ErrDownloadedFileNotFound):
		Error(w, http.StatusInternalServerError, "Downloaded file not found")
	case errors.Is(err, context.Canceled):
		slog.Debug("client went away",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("path", r.URL.Path),
		)
		Error(w, http.StatusInternalServerError, "Request cancelled")
	default:
		slog.Error("unhandled service error",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.String("error", err.Error()),
		)
		Error(w, http.StatusInternalServerError, err.Error())
	}
}

func toExtractResponse(e *model.Extraction) ExtractResponse {
	return ExtractResponse{
		Success:     true,
		Title:       e.Title(),
		Duration:    e.DurationSeconds(),
		Thumbnail:   e.ThumbnailURL(),
		DownloadURL: e.MediaURL,
		Size:        e.SizeBytes(),
	}
}

// attachmentHeader builds a Content-Disposition value forcing a download.
// Non-ASCII names are encoded per RFC 2231.
func attachmentHeader(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return `attachment; filename="` + DefaultProxyFilename + `"`
}
