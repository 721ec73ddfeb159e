package model

import (
	"errors"
	"strings"
)

var (
	// ErrMissingURL is returned when a request carries no URL.
	ErrMissingURL = errors.New("please provide a URL")

	// ErrInvalidSourceURL is returned when the URL does not point at the video platform.
	ErrInvalidSourceURL = errors.New("please provide a valid LinkedIn URL")

	// ErrMediaHostNotAllowed is returned when a media URL is not http(s) or
	// points outside the allowed media hosts.
	ErrMediaHostNotAllowed = errors.New("video URL host is not allowed")

	// ErrVideoNotFound is returned when extraction succeeds but yields no media URL.
	ErrVideoNotFound = errors.New("no video found at this URL")

	// ErrDownloadTimeout is returned when a full download exceeds its deadline.
	ErrDownloadTimeout = errors.New("download timed out")

	// ErrDownloadedFileNotFound is returned when the downloader exits cleanly
	// but no output file can be located.
	ErrDownloadedFileNotFound = errors.New("downloaded file not found")
)

// DefaultExtractionFailure is reported when every strategy failed without a message.
const DefaultExtractionFailure = "Failed to extract video. The video may be private or require authentication."

// ExtractionError is returned when every extraction strategy failed.
// Message is human readable and safe to show to the caller.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	if e.Message == "" {
		return DefaultExtractionFailure
	}
	return e.Message
}

// DownloadError is returned when the downloader exits with a failure status.
type DownloadError struct {
	Stderr string
}

func (e *DownloadError) Error() string {
	return strings.TrimSpace(e.Stderr)
}
