// Package extractor resolves video page URLs to media metadata using yt-dlp.
package extractor

import (
	"context"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
)

// Extractor defines the interface for resolving and downloading videos.
// This abstraction allows swapping the external tool and mocking in tests.
type Extractor interface {
	// Extract resolves url to video metadata without downloading the media.
	// On failure it returns a *model.ExtractionError with a caller-facing message,
	// or the context error if ctx was cancelled.
	Extract(ctx context.Context, url string) (*model.VideoInfo, error)

	// Download fetches the media for url into outputPath.
	// Returns model.ErrDownloadTimeout or a *model.DownloadError on failure.
	Download(ctx context.Context, url, outputPath string) error
}

// Strategy is one way of invoking the extraction tool.
// Strategies are tried in order until one succeeds.
type Strategy struct {
	// Name identifies the strategy in logs and metrics.
	Name string
	// Args are inserted before the common extraction flags.
	Args []string
}

// DefaultStrategies returns the extraction strategies in the order they are tried:
// prefer MP4, then no format restriction, then best single file.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "mp4", Args: []string{"--format", "best[ext=mp4]/best"}},
		{Name: "any", Args: nil},
		{Name: "best", Args: []string{"--format", "best"}},
	}
}
