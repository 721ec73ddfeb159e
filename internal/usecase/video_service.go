package usecase

import (
	"context"
	"log/slog"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/domain/repository"
	"github.com/hszk-dev/linkedin-dl/internal/extractor"
)

// VideoService defines the interface for video resolution.
type VideoService interface {
	// Extract resolves a page URL to its media URL, size and duration.
	// Returns model.ErrVideoNotFound when the page has no playable media,
	// or a *model.ExtractionError when the extractor failed.
	Extract(ctx context.Context, url string) (*model.Extraction, error)
}

type videoService struct {
	extractor extractor.Extractor
	media     repository.MediaSource
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(ext extractor.Extractor, media repository.MediaSource) VideoService {
	return &videoService{
		extractor: ext,
		media:     media,
	}
}

// Extract runs the extractor, then probes the media URL for its size.
// A failed probe is not an error; the size is reported as unknown.
func (s *videoService) Extract(ctx context.Context, url string) (*model.Extraction, error) {
	info, err := s.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	mediaURL := info.MediaURL()
	if mediaURL == "" {
		return nil, model.ErrVideoNotFound
	}

	size, err := s.media.Probe(ctx, mediaURL)
	if err != nil {
		slog.Warn("size probe failed",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		size = 0
	}

	return &model.Extraction{
		Info:     info,
		MediaURL: mediaURL,
		Size:     size,
		Duration: info.DurationSeconds(),
	}, nil
}
