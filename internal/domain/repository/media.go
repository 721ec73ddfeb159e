package repository

import (
	"context"
	"io"
)

// MediaStream is an open response body from the media host.
// Caller is responsible for closing Body.
type MediaStream struct {
	Body io.ReadCloser
	// ContentLength is the upstream Content-Length, or -1 when unknown.
	ContentLength int64
	ContentType   string
}

// MediaSource defines the interface for fetching resolved media URLs.
// Implementations should be provided by the infrastructure layer.
type MediaSource interface {
	// Probe returns the size in bytes advertised by the media host, or 0 if it
	// does not advertise one.
	Probe(ctx context.Context, mediaURL string) (int64, error)

	// Open starts a streaming GET of mediaURL.
	// Returns an error wrapping ErrUpstreamStatus for non-2xx responses and
	// ErrUpstreamUnavailable for transport failures.
	Open(ctx context.Context, mediaURL string) (*MediaStream, error)
}
