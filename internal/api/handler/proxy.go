package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/hszk-dev/linkedin-dl/internal/api/middleware"
	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/domain/repository"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/metrics"
)

const (
	// DefaultProxyFilename is used when the caller supplies no usable filename.
	DefaultProxyFilename = "linkedin_video.mp4"

	proxyChunkSize = 8 << 10
)

// ProxyHandler relays resolved media to the client as a file download.
type ProxyHandler struct {
	media        repository.MediaSource
	allowedHosts []string
}

// NewProxyHandler creates a new ProxyHandler. Only media URLs on allowedHosts
// (or their subdomains) are fetched; an empty list fetches any http(s) URL.
func NewProxyHandler(media repository.MediaSource, allowedHosts []string) *ProxyHandler {
	return &ProxyHandler{media: media, allowedHosts: allowedHosts}
}

// Stream handles GET /api/download-proxy?url=&filename=
func (h *ProxyHandler) Stream(w http.ResponseWriter, r *http.Request) {
	mediaURL := r.URL.Query().Get("url")
	if mediaURL == "" {
		Error(w, http.StatusBadRequest, "Please provide a video URL")
		return
	}
	if err := model.ValidateMediaURL(mediaURL, h.allowedHosts); err != nil {
		Error(w, http.StatusBadRequest, "Please provide a valid video URL")
		return
	}

	filename := model.SanitizeFilename(r.URL.Query().Get("filename"))
	if filename == "" {
		filename = DefaultProxyFilename
	}

	stream, err := h.media.Open(r.Context(), mediaURL)
	if err != nil {
		Error(w, http.StatusInternalServerError, "Failed to download video: "+err.Error())
		return
	}
	defer stream.Body.Close()

	header := w.Header()
	header.Set("Content-Type", "video/mp4")
	header.Set("Content-Disposition", attachmentHeader(filename))
	if stream.ContentLength >= 0 {
		header.Set("Content-Length", strconv.FormatInt(stream.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	n, err := relay(w, stream.Body)
	metrics.ProxyBytesTotal.Add(float64(n))
	if err != nil {
		// Headers are committed; all that is left is to stop.
		slog.Warn("proxy stream aborted",
			slog.String("request_id", middleware.GetRequestID(r.Context())),
			slog.Int64("bytes", n),
			slog.String("error", err.Error()),
		)
	}
}

// relay copies src to w in fixed-size chunks, flushing after each one so the
// client sees progress.
func relay(w http.ResponseWriter, src io.Reader) (int64, error) {
	rc := http.NewResponseController(w)
	buf := make([]byte, proxyChunkSize)

	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := w.Write(buf[:nr])
			written += int64(nw)
			if werr != nil {
				return written, werr
			}
			if nw < nr {
				return written, io.ErrShortWrite
			}
			if ferr := rc.Flush(); ferr != nil && !errors.Is(ferr, http.ErrNotSupported) {
				return written, ferr
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
