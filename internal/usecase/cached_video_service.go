package usecase

import (
	"context"

	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/cache"
	"github.com/hszk-dev/linkedin-dl/internal/infrastructure/metrics"
)

// cachedVideoService wraps VideoService with caching capabilities.
// It implements the decorator pattern to add caching without modifying the original service.
type cachedVideoService struct {
	delegate VideoService
	cache    cache.VideoCache
}

// NewCachedVideoService creates a new CachedVideoService wrapping the provided VideoService.
func NewCachedVideoService(delegate VideoService, videoCache cache.VideoCache) VideoService {
	return &cachedVideoService{
		delegate: delegate,
		cache:    videoCache,
	}
}

// Extract implements the cache-aside pattern keyed by the hashed page URL.
// Only successful extractions are stored. Concurrent misses for the same URL
// each run the extractor; the last writer wins.
func (s *cachedVideoService) Extract(ctx context.Context, url string) (*model.Extraction, error) {
	key := cache.Key(url)

	if extraction, ok := s.cache.Get(key); ok {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheTypeMemory).Inc()
		return extraction, nil
	}
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheTypeMemory).Inc()

	extraction, err := s.delegate.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, extraction)
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheTypeMemory).Inc()

	return extraction, nil
}
