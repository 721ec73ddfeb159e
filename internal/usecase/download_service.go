package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/extractor"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/metrics"
)

// DefaultDownloadTitle names downloads whose title could not be resolved.
const DefaultDownloadTitle = "linkedin_video"

// downloadExtensions are the containers the downloader may produce
// when the requested format is unavailable.
var downloadExtensions = []string{".mp4", ".webm", ".m4a"}

// DownloadOutput is a finished server-side download.
// The caller must close File.
type DownloadOutput struct {
	File     afero.File
	Filename string
	Size     int64
	ModTime  time.Time
}

// DownloadService defines the interface for full server-side downloads.
type DownloadService interface {
	// Download fetches the media for url into the scratch directory and opens it.
	Download(ctx context.Context, url string) (*DownloadOutput, error)
}

// DownloadServiceConfig holds configuration for DownloadService.
type DownloadServiceConfig struct {
	// ScratchDir is where downloaded files are written.
	ScratchDir string
}

type downloadService struct {
	videos    VideoService
	extractor extractor.Extractor
	fs        afero.Fs

	scratchDir string
}

// NewDownloadService creates a new DownloadService instance.
func NewDownloadService(
	videos VideoService,
	ext extractor.Extractor,
	fs afero.Fs,
	cfg DownloadServiceConfig,
) DownloadService {
	return &downloadService{
		videos:     videos,
		extractor:  ext,
		fs:         fs,
		scratchDir: cfg.ScratchDir,
	}
}

// Download resolves a title for url, runs the downloader and locates its output.
func (s *downloadService) Download(ctx context.Context, url string) (*DownloadOutput, error) {
	filename := s.resolveTitle(ctx, url) + ".mp4"
	outputPath := filepath.Join(s.scratchDir, filename)

	if err := s.extractor.Download(ctx, url, outputTemplate(outputPath)); err != nil {
		if errors.Is(err, model.ErrDownloadTimeout) {
			metrics.DownloadsTotal.WithLabelValues(metrics.ResultTimeout).Inc()
		} else {
			metrics.DownloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		}
		return nil, err
	}

	path, err := s.locate(outputPath)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	f, err := s.fs.Open(path)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("open downloaded file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		metrics.DownloadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("stat downloaded file: %w", err)
	}

	metrics.DownloadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	slog.Info("download finished",
		slog.String("file", filepath.Base(path)),
		slog.String("size", humanize.Bytes(uint64(fi.Size()))),
	)

	return &DownloadOutput{
		File:     f,
		Filename: filepath.Base(path),
		Size:     fi.Size(),
		ModTime:  fi.ModTime(),
	}, nil
}

// resolveTitle returns the sanitized title, or DefaultDownloadTitle when
// extraction fails or the title sanitizes to nothing.
func (s *downloadService) resolveTitle(ctx context.Context, url string) string {
	extraction, err := s.videos.Extract(ctx, url)
	if err != nil {
		slog.Debug("title lookup failed, using default",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return DefaultDownloadTitle
	}

	title := extraction.Title()
	if title == "" {
		return DefaultDownloadTitle
	}
	return title
}

// locate finds the downloader's output: the exact path first, then the
// same base name with each known container extension.
func (s *downloadService) locate(outputPath string) (string, error) {
	if ok, _ := afero.Exists(s.fs, outputPath); ok {
		return outputPath, nil
	}

	base := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	for _, ext := range downloadExtensions {
		candidate := base + ext
		if ok, _ := afero.Exists(s.fs, candidate); ok {
			return candidate, nil
		}
	}

	return "", model.ErrDownloadedFileNotFound
}

// outputTemplate escapes a literal path for the downloader's output template syntax.
func outputTemplate(path string) string {
	return strings.ReplaceAll(path, "%", "%%")
}
