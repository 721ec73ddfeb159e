package usecase

import (
	"context"
	"sync"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/domain/repository"
)

// mockExtractor provides a configurable mock for extractor.Extractor.
type mockExtractor struct {
	extractFn  func(ctx context.Context, url string) (*model.VideoInfo, error)
	downloadFn func(ctx context.Context, url, outputPath string) error
}

func (m *mockExtractor) Extract(ctx context.Context, url string) (*model.VideoInfo, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, url)
	}
	return &model.VideoInfo{}, nil
}

func (m *mockExtractor) Download(ctx context.Context, url, outputPath string) error {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, url, outputPath)
	}
	return nil
}

// mockMediaSource provides a configurable mock for repository.MediaSource.
type mockMediaSource struct {
	probeFn func(ctx context.Context, mediaURL string) (int64, error)
	openFn  func(ctx context.Context, mediaURL string) (*repository.MediaStream, error)
}

func (m *mockMediaSource) Probe(ctx context.Context, mediaURL string) (int64, error) {
	if m.probeFn != nil {
		return m.probeFn(ctx, mediaURL)
	}
	return 0, nil
}

func (m *mockMediaSource) Open(ctx context.Context, mediaURL string) (*repository.MediaStream, error) {
	if m.openFn != nil {
		return m.openFn(ctx, mediaURL)
	}
	return nil, nil
}

// mockVideoService provides a configurable mock for VideoService.
type mockVideoService struct {
	mu        sync.Mutex
	calls     int
	extractFn func(ctx context.Context, url string) (*model.Extraction, error)
}

func (m *mockVideoService) Extract(ctx context.Context, url string) (*model.Extraction, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.extractFn != nil {
		return m.extractFn(ctx, url)
	}
	return nil, nil
}

func (m *mockVideoService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockVideoCache provides a configurable mock for cache.VideoCache.
type mockVideoCache struct {
	getFn func(key string) (*model.Extraction, bool)
	setFn func(key string, e *model.Extraction)
}

func (m *mockVideoCache) Get(key string) (*model.Extraction, bool) {
	if m.getFn != nil {
		return m.getFn(key)
	}
	return nil, false
}

func (m *mockVideoCache) Set(key string, e *model.Extraction) {
	if m.setFn != nil {
		m.setFn(key, e)
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}
