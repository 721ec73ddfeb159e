package cache

import (
	"github.com/hszk-dev/linkedin-dl/internal/domain/model"
)

// VideoCache defines the interface for caching extraction results.
type VideoCache interface {
	// Get retrieves an extraction by cache key.
	// Returns nil, false on a miss, including when the stored entry has expired.
	Get(key string) (*model.Extraction, bool)

	// Set stores an extraction under key, replacing any previous entry.
	Set(key string, extraction *model.Extraction)
}
